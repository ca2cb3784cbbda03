package simulation

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-engine/internal/models"
)

// TrioSimulator buys a single 100-yen trio ticket on the unordered
// top-3 predicted horses. It hits only when the set equals the
// official top-3.
type TrioSimulator struct {
	base
}

// NewTrioSimulator creates a trio simulator.
func NewTrioSimulator(lister RaceLister, predictor PredictionProvider, payouts PayoutSource, logger *logrus.Logger) (*TrioSimulator, error) {
	b, err := newBase(lister, predictor, payouts, logger, DefaultTopN)
	if err != nil {
		return nil, err
	}
	return &TrioSimulator{base: b}, nil
}

// SimulateRace settles the trio ticket for one race.
func (s *TrioSimulator) SimulateRace(ctx context.Context, race models.Race) (RaceRecord, error) {
	predicted, err := s.predictor.PredictTopN(ctx, race.ID, s.topN)
	if err != nil {
		return RaceRecord{}, fmt.Errorf("predict: %w", err)
	}
	if len(predicted) < 3 {
		return RaceRecord{}, fmt.Errorf("race %s: need 3 predictions, got %d", race.ID, len(predicted))
	}

	payout, err := s.payouts.GetTrioPayout(ctx, race.ID)
	if err != nil {
		return RaceRecord{}, fmt.Errorf("trio payout: %w", err)
	}

	record := raceRecord(race, predicted[:3])
	record.Bets = 1
	record.Investment = unitStake
	if payout.Matches(predicted[0], predicted[1], predicted[2]) {
		record.Hits = 1
		record.Payout = payout.Amount
	}
	record.Hit = record.Hits > 0
	return record, nil
}

// SimulatePeriod settles every race in the window and summarizes.
// The hit rate is winning races over races simulated.
func (s *TrioSimulator) SimulatePeriod(ctx context.Context, from, to string, venues []string) (*Summary, error) {
	records, err := s.period(ctx, from, to, venues, s.SimulateRace)
	if err != nil {
		return nil, err
	}
	return summarize("trio", from, to, records, false), nil
}
