package backtest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keiba-engine/internal/factors"
	"github.com/yourusername/keiba-engine/internal/ml"
	"github.com/yourusername/keiba-engine/internal/models"
	"github.com/yourusername/keiba-engine/internal/prediction"
)

type mockSource struct {
	races   []models.Race
	cards   map[string]models.RaceCard
	results map[string][]models.RaceResult
	past    map[string][]models.PastResult
	horses  map[string]models.Horse

	cutoffs   []time.Time
	pastAsks  []time.Time
	failCards map[string]bool
}

func (s *mockSource) GetHorses(_ context.Context, ids []string) (map[string]models.Horse, error) {
	out := make(map[string]models.Horse, len(ids))
	for _, id := range ids {
		if h, ok := s.horses[id]; ok {
			out[id] = h
		}
	}
	return out, nil
}

func (s *mockSource) GetRacesByDateRange(_ context.Context, start, end time.Time) ([]models.Race, error) {
	var out []models.Race
	for _, r := range s.races {
		if !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *mockSource) GetRacesBefore(_ context.Context, cutoff time.Time) ([]models.Race, error) {
	s.cutoffs = append(s.cutoffs, cutoff)
	var out []models.Race
	for _, r := range s.races {
		if r.Date.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *mockSource) GetRaceCard(_ context.Context, raceID string) (models.RaceCard, error) {
	if s.failCards[raceID] {
		return models.RaceCard{}, errors.New("card fetch failed")
	}
	card, ok := s.cards[raceID]
	if !ok {
		return models.RaceCard{}, models.ErrRaceNotFound
	}
	return card, nil
}

func (s *mockSource) GetRaceResults(_ context.Context, raceID string) ([]models.RaceResult, error) {
	return s.results[raceID], nil
}

func (s *mockSource) GetPastResults(_ context.Context, horseID string, before time.Time, _ int) ([]models.PastResult, error) {
	s.pastAsks = append(s.pastAsks, before)
	var out []models.PastResult
	for _, r := range s.past[horseID] {
		if r.RaceDate.Before(before) {
			out = append(out, r)
		}
	}
	return out, nil
}

type mockTrainer struct {
	calls   []int // sample counts per call
	failing bool
}

func (t *mockTrainer) Train(_ context.Context, features [][]float64, _ []int, _ ml.TrainingParams) (ml.Predictor, error) {
	t.calls = append(t.calls, len(features))
	if t.failing {
		return nil, errors.New("training failed")
	}
	return &flatPredictor{}, nil
}

type flatPredictor struct{}

func (p *flatPredictor) PredictProba(_ context.Context, features [][]float64) ([]float64, error) {
	out := make([]float64, len(features))
	for i := range out {
		out[i] = 0.5
	}
	return out, nil
}

// fixture builds a source with one 12-horse race per given date plus
// full results, so each race contributes 12 training samples once it
// is in the past.
func fixture(t *testing.T, dates ...time.Time) *mockSource {
	t.Helper()
	src := &mockSource{
		cards:     make(map[string]models.RaceCard),
		results:   make(map[string][]models.RaceResult),
		past:      make(map[string][]models.PastResult),
		horses:    make(map[string]models.Horse),
		failCards: make(map[string]bool),
	}
	for i, date := range dates {
		race := models.Race{
			ID:       fmt.Sprintf("race-%03d", i),
			Name:     "六甲特別(2勝クラス)",
			Date:     date,
			Venue:    "阪神",
			Number:   1 + i%12,
			Surface:  models.SurfaceTurf,
			Distance: 2000,
		}
		src.races = append(src.races, race)

		card := models.RaceCard{
			RaceID:     race.ID,
			RaceName:   race.Name,
			RaceNumber: race.Number,
			Venue:      race.Venue,
			Date:       race.DateString(),
			Surface:    race.Surface,
			Distance:   race.Distance,
		}
		for n := 1; n <= 12; n++ {
			horseID := fmt.Sprintf("h-%02d", n)
			card.Entries = append(card.Entries, models.RaceEntry{
				HorseID:     horseID,
				HorseNumber: n,
				Age:         4,
				Impost:      56.0,
			})
			src.results[race.ID] = append(src.results[race.ID], models.RaceResult{
				RaceID:         race.ID,
				HorseID:        horseID,
				HorseNumber:    n,
				FinishPosition: n,
				Impost:         56.0,
				Age:            4,
			})
			src.past[horseID] = append(src.past[horseID], models.PastResult{
				HorseID:        horseID,
				RaceID:         race.ID,
				RaceName:       race.Name,
				RaceDate:       date,
				Surface:        race.Surface,
				Distance:       race.Distance,
				FinishPosition: n,
				TotalRunners:   12,
			})
		}
		src.cards[race.ID] = card
	}
	return src
}

func newTestEngine(t *testing.T, src *mockSource, trainer ml.Trainer, cfg Config) *Engine {
	t.Helper()
	cache, err := factors.NewCache(10000)
	require.NoError(t, err)
	combiner, err := factors.NewCombiner(factors.SevenFactorWeights)
	require.NoError(t, err)
	calc, err := factors.NewCachedCalculator(cache, combiner, nil)
	require.NoError(t, err)
	svc, err := prediction.NewService(calc, combiner, src, nil,
		prediction.WithMarketDataMode(prediction.MarketDataHistorical))
	require.NoError(t, err)
	builder, err := NewTrainingDataBuilder(src, calc, combiner, nil)
	require.NoError(t, err)
	engine, err := NewEngine(src, svc, trainer, builder, cfg, nil)
	require.NoError(t, err)
	return engine
}

func drain(t *testing.T, ch <-chan models.RaceBacktestResult) []models.RaceBacktestResult {
	t.Helper()
	var out []models.RaceBacktestResult
	for r := range ch {
		out = append(out, r)
	}
	return out
}

func weeklyWindowDates() []time.Time {
	return []time.Time{
		day(2024, 1, 6), day(2024, 1, 7), // ISO week 1
		day(2024, 1, 13), day(2024, 1, 14), // ISO week 2
		day(2024, 1, 20), day(2024, 1, 21), // ISO week 3
	}
}

func TestEngine_WeeklyRetrainSchedule(t *testing.T) {
	src := fixture(t, weeklyWindowDates()...)
	trainer := &mockTrainer{}
	engine := newTestEngine(t, src, trainer, Config{
		StartDate:       day(2024, 1, 6),
		EndDate:         day(2024, 1, 21),
		RetrainInterval: RetrainWeekly,
	})

	ch, err := engine.Run(context.Background())
	require.NoError(t, err)
	results := drain(t, ch)

	assert.Len(t, results, 6)
	assert.Equal(t, int64(3), engine.Stats().Retrains, "one retrain per ISO week")
	assert.Equal(t, []time.Time{day(2024, 1, 6), day(2024, 1, 13), day(2024, 1, 20)}, src.cutoffs)
}

func TestEngine_TrainingCutoffIsStrict(t *testing.T) {
	// Nine history days of 12 runners each: 108 samples, enough to
	// train from the first backtest race on.
	var dates []time.Time
	for d := 1; d <= 9; d++ {
		dates = append(dates, day(2024, 1, d))
	}
	dates = append(dates, day(2024, 1, 10), day(2024, 1, 11))

	src := fixture(t, dates...)
	trainer := &mockTrainer{}
	engine := newTestEngine(t, src, trainer, Config{
		StartDate:       day(2024, 1, 10),
		EndDate:         day(2024, 1, 11),
		RetrainInterval: RetrainDaily,
	})

	ch, err := engine.Run(context.Background())
	require.NoError(t, err)
	results := drain(t, ch)
	require.Len(t, results, 2)

	// Training data was requested with the race date as the strict
	// cutoff, and sample counts match only the races before it.
	require.Equal(t, []time.Time{day(2024, 1, 10), day(2024, 1, 11)}, src.cutoffs)
	require.Equal(t, []int{9 * 12, 10 * 12}, trainer.calls)

	// Every history fetch during the run also respected a cutoff no
	// later than the current race date.
	for _, asked := range src.pastAsks {
		assert.False(t, asked.After(day(2024, 1, 11)))
	}

	assert.True(t, engine.Stats().ModelAvailable)
	for _, r := range results {
		for _, p := range r.Predictions {
			assert.Equal(t, 0.5, p.MLProbability)
		}
	}
}

func TestEngine_InsufficientSamplesLeavesModelUnset(t *testing.T) {
	src := fixture(t, day(2024, 1, 6), day(2024, 1, 7))
	trainer := &mockTrainer{}
	engine := newTestEngine(t, src, trainer, Config{
		StartDate:       day(2024, 1, 6),
		EndDate:         day(2024, 1, 7),
		RetrainInterval: RetrainWeekly,
	})

	ch, err := engine.Run(context.Background())
	require.NoError(t, err)
	results := drain(t, ch)

	require.Len(t, results, 2)
	assert.Empty(t, trainer.calls, "trainer must not run below the sample minimum")
	assert.False(t, engine.Stats().ModelAvailable)
	for _, r := range results {
		for _, p := range r.Predictions {
			assert.Equal(t, 0.0, p.MLProbability)
			assert.False(t, p.CombinedScore.Valid())
		}
	}
}

func TestEngine_TrainingFailureLeavesModelUnset(t *testing.T) {
	var dates []time.Time
	for d := 1; d <= 9; d++ {
		dates = append(dates, day(2024, 1, d))
	}
	dates = append(dates, day(2024, 1, 10))

	src := fixture(t, dates...)
	trainer := &mockTrainer{failing: true}
	engine := newTestEngine(t, src, trainer, Config{
		StartDate:       day(2024, 1, 10),
		EndDate:         day(2024, 1, 10),
		RetrainInterval: RetrainDaily,
	})

	ch, err := engine.Run(context.Background())
	require.NoError(t, err)
	results := drain(t, ch)

	require.Len(t, results, 1, "the run continues factor-only")
	assert.False(t, engine.Stats().ModelAvailable)
}

func TestEngine_ChronologicalOrder(t *testing.T) {
	src := fixture(t, weeklyWindowDates()...)
	engine := newTestEngine(t, src, &mockTrainer{}, Config{
		StartDate:       day(2024, 1, 6),
		EndDate:         day(2024, 1, 21),
		RetrainInterval: RetrainWeekly,
	})

	ch, err := engine.Run(context.Background())
	require.NoError(t, err)
	results := drain(t, ch)
	require.NotEmpty(t, results)

	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		assert.LessOrEqual(t, prev.RaceDate, cur.RaceDate)
		if prev.RaceDate == cur.RaceDate {
			assert.LessOrEqual(t, prev.RaceNumber, cur.RaceNumber)
		}
	}
}

func TestEngine_SkipsUnresolvableRace(t *testing.T) {
	src := fixture(t, day(2024, 1, 6), day(2024, 1, 7), day(2024, 1, 8))
	src.failCards["race-001"] = true

	engine := newTestEngine(t, src, &mockTrainer{}, Config{
		StartDate:       day(2024, 1, 6),
		EndDate:         day(2024, 1, 8),
		RetrainInterval: RetrainMonthly,
	})

	ch, err := engine.Run(context.Background())
	require.NoError(t, err)
	results := drain(t, ch)

	// The failed race vanishes from the stream; the rest survive.
	require.Len(t, results, 2)
	assert.Equal(t, "race-000", results[0].RaceID)
	assert.Equal(t, "race-002", results[1].RaceID)
	assert.Equal(t, int64(1), engine.Stats().SkippedRaces)
	assert.Equal(t, int64(2), engine.Stats().TotalRaces)
}

func TestEngine_ActualRanksAttached(t *testing.T) {
	src := fixture(t, day(2024, 1, 6))
	engine := newTestEngine(t, src, &mockTrainer{}, Config{
		StartDate:       day(2024, 1, 6),
		EndDate:         day(2024, 1, 6),
		RetrainInterval: RetrainWeekly,
	})

	ch, err := engine.Run(context.Background())
	require.NoError(t, err)
	results := drain(t, ch)
	require.Len(t, results, 1)

	byNumber := make(map[int]int)
	for _, p := range results[0].Predictions {
		byNumber[p.HorseNumber] = p.ActualRank
	}
	// The fixture finishes horses in entry order.
	for n := 1; n <= 12; n++ {
		assert.Equal(t, n, byNumber[n])
	}
}

func TestEngine_Cancellation(t *testing.T) {
	src := fixture(t, weeklyWindowDates()...)
	engine := newTestEngine(t, src, &mockTrainer{}, Config{
		StartDate:       day(2024, 1, 6),
		EndDate:         day(2024, 1, 21),
		RetrainInterval: RetrainWeekly,
	})

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := engine.Run(ctx)
	require.NoError(t, err)

	<-ch // take one result
	cancel()

	results := drain(t, ch)
	assert.Less(t, len(results), 5, "stream ends early after cancel")
}

func TestNewEngine_Validation(t *testing.T) {
	src := fixture(t, day(2024, 1, 6))
	trainer := &mockTrainer{}
	engine := newTestEngine(t, src, trainer, Config{
		StartDate:       day(2024, 1, 6),
		EndDate:         day(2024, 1, 6),
		RetrainInterval: RetrainDaily,
	})
	require.NotNil(t, engine)

	_, err := NewEngine(nil, nil, nil, nil, Config{}, nil)
	assert.Error(t, err)

	cfg := Config{StartDate: day(2024, 1, 2), EndDate: day(2024, 1, 1), RetrainInterval: RetrainDaily}
	_, err = NewEngine(src, nil, trainer, nil, cfg, nil)
	assert.Error(t, err)
}
