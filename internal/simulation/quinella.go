package simulation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-engine/internal/models"
)

// QuinellaSimulator buys the three unordered pairs from the top-3
// predicted horses (box), 100 yen each. A pair hits when it equals
// the official top-2 finishers.
type QuinellaSimulator struct {
	base
}

// NewQuinellaSimulator creates a quinella-box simulator. The ticket
// set is always built from the top 3, so topN is fixed.
func NewQuinellaSimulator(lister RaceLister, predictor PredictionProvider, payouts PayoutSource, logger *logrus.Logger) (*QuinellaSimulator, error) {
	b, err := newBase(lister, predictor, payouts, logger, DefaultTopN)
	if err != nil {
		return nil, err
	}
	return &QuinellaSimulator{base: b}, nil
}

// SimulateRace settles the three quinella pairs for one race.
func (s *QuinellaSimulator) SimulateRace(ctx context.Context, race models.Race) (RaceRecord, error) {
	predicted, err := s.predictor.PredictTopN(ctx, race.ID, s.topN)
	if err != nil {
		return RaceRecord{}, fmt.Errorf("predict: %w", err)
	}
	if len(predicted) < 3 {
		return RaceRecord{}, fmt.Errorf("race %s: need 3 predictions, got %d", race.ID, len(predicted))
	}

	payout, err := s.payouts.GetQuinellaPayout(ctx, race.ID)
	if err != nil {
		return RaceRecord{}, fmt.Errorf("quinella payout: %w", err)
	}

	pairs := [][2]int{
		{predicted[0], predicted[1]},
		{predicted[0], predicted[2]},
		{predicted[1], predicted[2]},
	}

	record := raceRecord(race, predicted[:3])
	record.Bets = len(pairs)
	record.Investment = unitStake.Mul(decimal.NewFromInt(int64(len(pairs))))
	record.Payout = decimal.Zero
	for _, pair := range pairs {
		if payout.Matches(pair[0], pair[1]) {
			record.Hits = 1
			record.Payout = payout.Amount
			break
		}
	}
	record.Hit = record.Hits > 0
	return record, nil
}

// SimulatePeriod settles every race in the window and summarizes.
// The hit rate is winning races over races simulated.
func (s *QuinellaSimulator) SimulatePeriod(ctx context.Context, from, to string, venues []string) (*Summary, error) {
	records, err := s.period(ctx, from, to, venues, s.SimulateRace)
	if err != nil {
		return nil, err
	}
	return summarize("quinella", from, to, records, false), nil
}
