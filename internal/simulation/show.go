package simulation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-engine/internal/models"
)

// ShowSimulator buys a 100-yen show (fukusho) ticket on each of the
// top-N predicted horses. A ticket hits when its horse finishes in
// the official top 3.
type ShowSimulator struct {
	base
}

// NewShowSimulator creates a show-bet simulator. topN <= 0 uses the
// default of 3.
func NewShowSimulator(lister RaceLister, predictor PredictionProvider, payouts PayoutSource, logger *logrus.Logger, topN int) (*ShowSimulator, error) {
	b, err := newBase(lister, predictor, payouts, logger, topN)
	if err != nil {
		return nil, err
	}
	return &ShowSimulator{base: b}, nil
}

// SimulateRace settles the show tickets for one race.
func (s *ShowSimulator) SimulateRace(ctx context.Context, race models.Race) (RaceRecord, error) {
	predicted, err := s.predictor.PredictTopN(ctx, race.ID, s.topN)
	if err != nil {
		return RaceRecord{}, fmt.Errorf("predict: %w", err)
	}
	if len(predicted) == 0 {
		return RaceRecord{}, fmt.Errorf("race %s: no predictions", race.ID)
	}

	payouts, err := s.payouts.GetShowPayouts(ctx, race.ID)
	if err != nil {
		return RaceRecord{}, fmt.Errorf("show payouts: %w", err)
	}
	amountByNumber := make(map[int]decimal.Decimal, len(payouts))
	for _, p := range payouts {
		amountByNumber[p.HorseNumber] = p.Amount
	}

	record := raceRecord(race, predicted)
	record.Bets = len(predicted)
	record.Investment = unitStake.Mul(decimal.NewFromInt(int64(len(predicted))))
	record.Payout = decimal.Zero
	for _, number := range predicted {
		if amount, ok := amountByNumber[number]; ok {
			record.Hits++
			record.Payout = record.Payout.Add(amount)
		}
	}
	record.Hit = record.Hits > 0
	return record, nil
}

// SimulatePeriod settles every race in the window and summarizes.
// The hit rate is hits over tickets bought.
func (s *ShowSimulator) SimulatePeriod(ctx context.Context, from, to string, venues []string) (*Summary, error) {
	records, err := s.period(ctx, from, to, venues, s.SimulateRace)
	if err != nil {
		return nil, err
	}
	return summarize("show", from, to, records, true), nil
}
