package models

// PredictionResult is the scored outcome for one entry in one race.
// Instances are built once by the prediction service and never
// mutated afterwards.
type PredictionResult struct {
	HorseNumber   int              `json:"horse_number"`
	HorseName     string           `json:"horse_name"`
	HorseID       string           `json:"horse_id"`
	MLProbability float64          `json:"ml_probability"`
	FactorScores  map[string]Score `json:"factor_scores"`
	TotalScore    Score            `json:"total_score"`
	CombinedScore Score            `json:"combined_score"`
	Rank          int              `json:"rank"`
}

// BacktestPrediction is a PredictionResult with the recorded finish
// attached after the fact. ActualRank 99 marks an unknown finish.
type BacktestPrediction struct {
	PredictionResult
	ActualRank int `json:"actual_rank"`
}

// RaceBacktestResult is the backtest outcome for one race.
type RaceBacktestResult struct {
	RaceID      string               `json:"race_id"`
	RaceDate    string               `json:"race_date"`
	RaceName    string               `json:"race_name"`
	Venue       string               `json:"venue"`
	RaceNumber  int                  `json:"race_number"`
	Predictions []BacktestPrediction `json:"predictions"`
}
