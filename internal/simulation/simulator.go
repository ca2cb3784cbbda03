// Package simulation replays betting strategies against recorded
// payouts: show, win, quinella, and trio tickets bought on the
// predicted ranking.
package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-engine/internal/models"
)

// DefaultTopN is how many predicted horses a ticket covers.
const DefaultTopN = 3

// unitStake is the price of one ticket in yen.
var unitStake = decimal.NewFromInt(100)

// PredictionProvider returns the predicted horse numbers for a race,
// best first.
type PredictionProvider interface {
	PredictTopN(ctx context.Context, raceID string, n int) ([]int, error)
}

// RaceLister enumerates races for a period simulation.
type RaceLister interface {
	GetRacesByDateRange(ctx context.Context, start, end time.Time) ([]models.Race, error)
}

// PayoutSource supplies official payouts. A missing record returns
// models.ErrNoPayoutData.
type PayoutSource interface {
	GetShowPayouts(ctx context.Context, raceID string) ([]models.ShowPayout, error)
	GetWinPayout(ctx context.Context, raceID string) (models.WinPayout, error)
	GetQuinellaPayout(ctx context.Context, raceID string) (models.QuinellaPayout, error)
	GetTrioPayout(ctx context.Context, raceID string) (models.TrioPayout, error)
}

// RaceRecord is the per-race outcome of one simulated bet.
type RaceRecord struct {
	RaceID     string          `json:"race_id"`
	RaceDate   string          `json:"race_date"`
	Venue      string          `json:"venue"`
	RaceNumber int             `json:"race_number"`
	Predicted  []int           `json:"predicted"`
	Bets       int             `json:"bets"`
	Hits       int             `json:"hits"`
	Hit        bool            `json:"hit"`
	Investment decimal.Decimal `json:"investment"`
	Payout     decimal.Decimal `json:"payout"`
}

// Summary aggregates a period simulation. PeriodFrom and PeriodTo
// echo the window strings exactly as given.
type Summary struct {
	BetType         string          `json:"bet_type"`
	PeriodFrom      string          `json:"period_from"`
	PeriodTo        string          `json:"period_to"`
	TotalRaces      int             `json:"total_races"`
	TotalBets       int             `json:"total_bets"`
	TotalHits       int             `json:"total_hits"`
	HitRate         float64         `json:"hit_rate"`
	TotalInvestment decimal.Decimal `json:"total_investment"`
	TotalPayout     decimal.Decimal `json:"total_payout"`
	ReturnRate      float64         `json:"return_rate"`
	Races           []RaceRecord    `json:"races"`
}

// base carries the collaborators shared by every simulator.
type base struct {
	lister    RaceLister
	predictor PredictionProvider
	payouts   PayoutSource
	logger    *logrus.Logger
	topN      int
}

func newBase(lister RaceLister, predictor PredictionProvider, payouts PayoutSource, logger *logrus.Logger, topN int) (base, error) {
	if lister == nil {
		return base{}, fmt.Errorf("simulator: race lister is required")
	}
	if predictor == nil {
		return base{}, fmt.Errorf("simulator: prediction provider is required")
	}
	if payouts == nil {
		return base{}, fmt.Errorf("simulator: payout source is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	return base{
		lister:    lister,
		predictor: predictor,
		payouts:   payouts,
		logger:    logger,
		topN:      topN,
	}, nil
}

// period runs simulate over every race in [from, to], optionally
// filtered by venue. A race that fails to resolve is skipped and
// counts toward nothing.
func (b *base) period(ctx context.Context, from, to string, venues []string, simulate func(context.Context, models.Race) (RaceRecord, error)) ([]RaceRecord, error) {
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidDate, from)
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidDate, to)
	}

	races, err := b.lister.GetRacesByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list races: %w", err)
	}

	venueSet := make(map[string]bool, len(venues))
	for _, v := range venues {
		venueSet[v] = true
	}

	records := make([]RaceRecord, 0, len(races))
	for _, race := range races {
		if len(venueSet) > 0 && !venueSet[race.Venue] {
			continue
		}
		record, err := simulate(ctx, race)
		if err != nil {
			b.logger.WithError(err).WithField("race_id", race.ID).Warn("Skipping race in simulation")
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// record fills the race-identity fields of a RaceRecord.
func raceRecord(race models.Race, predicted []int) RaceRecord {
	return RaceRecord{
		RaceID:     race.ID,
		RaceDate:   race.DateString(),
		Venue:      race.Venue,
		RaceNumber: race.Number,
		Predicted:  predicted,
	}
}

// summarize folds per-race records into a Summary. hitsOverBets
// selects the hit-rate denominator: total bets (show) or races
// (everything else).
func summarize(betType, from, to string, records []RaceRecord, hitsOverBets bool) *Summary {
	s := &Summary{
		BetType:         betType,
		PeriodFrom:      from,
		PeriodTo:        to,
		TotalRaces:      len(records),
		TotalInvestment: decimal.Zero,
		TotalPayout:     decimal.Zero,
		Races:           records,
	}
	for _, r := range records {
		s.TotalBets += r.Bets
		s.TotalHits += r.Hits
		s.TotalInvestment = s.TotalInvestment.Add(r.Investment)
		s.TotalPayout = s.TotalPayout.Add(r.Payout)
	}

	denominator := s.TotalRaces
	if hitsOverBets {
		denominator = s.TotalBets
	}
	if denominator > 0 {
		s.HitRate = float64(s.TotalHits) / float64(denominator)
	}
	if s.TotalInvestment.IsPositive() {
		rate, _ := s.TotalPayout.Div(s.TotalInvestment).Float64()
		s.ReturnRate = rate
	}
	return s
}
