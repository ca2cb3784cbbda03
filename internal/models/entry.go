package models

// RaceEntry is one horse entered in one race.
type RaceEntry struct {
	HorseID       string  `json:"horse_id" validate:"required"`
	HorseName     string  `json:"horse_name"`
	HorseNumber   int     `json:"horse_number" validate:"gt=0"`
	BracketNumber int     `json:"bracket_number"`
	Impost        float64 `json:"impost"`
	Sex           string  `json:"sex"`
	Age           int     `json:"age"`
	JockeyName    string  `json:"jockey_name"`

	// Live-entry market data, populated for real race cards and left
	// nil when the card is reconstructed from stored results.
	Odds       *float64 `json:"odds,omitempty"`
	Popularity *int     `json:"popularity,omitempty"`

	// Stored-entry fields used by the feature builder.
	Weight     *float64 `json:"weight,omitempty"`
	WeightDiff *float64 `json:"weight_diff,omitempty"`
}

// RaceCard is the entry set for one race together with its context.
type RaceCard struct {
	RaceID         string         `json:"race_id" validate:"required"`
	RaceName       string         `json:"race_name"`
	RaceNumber     int            `json:"race_number"`
	Venue          string         `json:"venue"`
	Date           string         `json:"date" validate:"required,datetime=2006-01-02"`
	Surface        Surface        `json:"surface"`
	Distance       int            `json:"distance"`
	TrackCondition TrackCondition `json:"track_condition"`
	Entries        []RaceEntry    `json:"entries"`
}
