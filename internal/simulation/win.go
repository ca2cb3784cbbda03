package simulation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-engine/internal/models"
)

// WinSimulator buys a 100-yen win (tansho) ticket on each of the
// top-N predicted horses. Only the ticket on the official winner pays.
type WinSimulator struct {
	base
}

// NewWinSimulator creates a win-bet simulator.
func NewWinSimulator(lister RaceLister, predictor PredictionProvider, payouts PayoutSource, logger *logrus.Logger, topN int) (*WinSimulator, error) {
	b, err := newBase(lister, predictor, payouts, logger, topN)
	if err != nil {
		return nil, err
	}
	return &WinSimulator{base: b}, nil
}

// SimulateRace settles the win tickets for one race.
func (s *WinSimulator) SimulateRace(ctx context.Context, race models.Race) (RaceRecord, error) {
	predicted, err := s.predictor.PredictTopN(ctx, race.ID, s.topN)
	if err != nil {
		return RaceRecord{}, fmt.Errorf("predict: %w", err)
	}
	if len(predicted) == 0 {
		return RaceRecord{}, fmt.Errorf("race %s: no predictions", race.ID)
	}

	payout, err := s.payouts.GetWinPayout(ctx, race.ID)
	if err != nil {
		return RaceRecord{}, fmt.Errorf("win payout: %w", err)
	}

	record := raceRecord(race, predicted)
	record.Bets = len(predicted)
	record.Investment = unitStake.Mul(decimal.NewFromInt(int64(len(predicted))))
	record.Payout = decimal.Zero
	for _, number := range predicted {
		if number == payout.HorseNumber {
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
func (s *WinSimulator) SimulatePeriod(ctx context.Context, from, to string, venues []string) (*Summary, error) {
	records, err := s.period(ctx, from, to, venues, s.SimulateRace)
	if err != nil {
		return nil, err
	}
	return summarize("win", from, to, records, false), nil
}
