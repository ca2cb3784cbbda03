// Package prediction scores race cards: factor scores per entry, an
// optional model probability, and a blended ranking.
package prediction

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-engine/internal/factors"
	"github.com/yourusername/keiba-engine/internal/grade"
	"github.com/yourusername/keiba-engine/internal/ml"
	"github.com/yourusername/keiba-engine/internal/models"
)

// DefaultAlpha weights the model probability against the factor total
// in the combined score.
const DefaultAlpha = 0.6

// DefaultPastResultsLimit caps how many past races are fetched per
// entry.
const DefaultPastResultsLimit = 20

// MarketDataMode selects where the popularity factor and the raw
// feature fields read their market data from.
type MarketDataMode string

const (
	// MarketDataLive reads odds and popularity from the current entry.
	MarketDataLive MarketDataMode = "live"
	// MarketDataHistorical reads them from the most recent past-race
	// row. Used by backtests over stored data, where the entry itself
	// carries no market snapshot.
	MarketDataHistorical MarketDataMode = "historical"
)

// PastResultsSource supplies a horse's past races strictly before a
// given date, most recent first.
type PastResultsSource interface {
	GetPastResults(ctx context.Context, horseID string, before time.Time, limit int) ([]models.PastResult, error)
}

// HorseSource supplies horse master records keyed by ID. The pedigree
// factor reads sire and dam-sire from them. IDs without a record are
// absent from the map.
type HorseSource interface {
	GetHorses(ctx context.Context, ids []string) (map[string]models.Horse, error)
}

// Service scores one race card at a time. The predictor is optional
// and swappable between calls; without one, every entry gets
// ml_probability 0 and the ranking falls back to factor scores alone.
type Service struct {
	calculator *factors.CachedCalculator
	combiner   *factors.Combiner
	source     PastResultsSource
	horses     HorseSource
	logger     *logrus.Logger

	alpha      float64
	limit      int
	marketMode MarketDataMode
}

// Option adjusts Service construction.
type Option func(*Service)

// WithAlpha overrides the model-vs-factors blend weight.
func WithAlpha(alpha float64) Option {
	return func(s *Service) { s.alpha = alpha }
}

// WithPastResultsLimit overrides the per-entry history fetch limit.
func WithPastResultsLimit(limit int) Option {
	return func(s *Service) { s.limit = limit }
}

// WithMarketDataMode selects the market data source.
func WithMarketDataMode(mode MarketDataMode) Option {
	return func(s *Service) { s.marketMode = mode }
}

// WithHorseSource enables pedigree scoring from horse master records.
// Without one the pedigree factor stays absent.
func WithHorseSource(horses HorseSource) Option {
	return func(s *Service) { s.horses = horses }
}

// NewService creates a prediction service.
func NewService(calculator *factors.CachedCalculator, combiner *factors.Combiner, source PastResultsSource, logger *logrus.Logger, opts ...Option) (*Service, error) {
	if calculator == nil {
		return nil, fmt.Errorf("prediction service: calculator is required")
	}
	if combiner == nil {
		return nil, fmt.Errorf("prediction service: combiner is required")
	}
	if source == nil {
		return nil, fmt.Errorf("prediction service: past results source is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	s := &Service{
		calculator: calculator,
		combiner:   combiner,
		source:     source,
		logger:     logger,
		alpha:      DefaultAlpha,
		limit:      DefaultPastResultsLimit,
		marketMode: MarketDataLive,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.alpha < 0 || s.alpha > 1 {
		return nil, fmt.Errorf("prediction service: alpha %.2f outside [0, 1]", s.alpha)
	}
	return s, nil
}

// PredictRace scores every entry of a race card and returns the
// results sorted by rank. Debut races return an empty list: there is
// no history to score. A nil predictor disables the model term.
func (s *Service) PredictRace(ctx context.Context, card models.RaceCard, predictor ml.Predictor) ([]models.PredictionResult, error) {
	if grade.IsDebut(card.RaceName) {
		s.logger.WithField("race_id", card.RaceID).Debug("Debut race, skipping prediction")
		return []models.PredictionResult{}, nil
	}

	raceDate, err := time.Parse("2006-01-02", card.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidDate, card.Date)
	}

	horses, err := s.horseLookup(ctx, card)
	if err != nil {
		return nil, err
	}

	results := make([]models.PredictionResult, 0, len(card.Entries))
	featureRows := make([][]float64, 0, len(card.Entries))
	modelRows := make([]int, 0, len(card.Entries)) // result index per feature row

	for _, entry := range card.Entries {
		past, err := s.source.GetPastResults(ctx, entry.HorseID, raceDate, s.limit)
		if err != nil {
			return nil, fmt.Errorf("fetch past results for %s: %w", entry.HorseID, err)
		}

		result := models.PredictionResult{
			HorseNumber:  entry.HorseNumber,
			HorseName:    entry.HorseName,
			HorseID:      entry.HorseID,
			FactorScores: emptyFactorScores(),
		}

		if len(past) > 0 {
			fctx := s.factorContext(card, entry, past, horses[entry.HorseID])
			scores, total := s.calculator.CalculateAll(fctx)
			result.FactorScores = scores
			result.TotalScore = total

			if predictor != nil {
				featureRows = append(featureRows, ml.BuildFeatureRow(ml.FeatureInput{
					Entry:        s.featureEntry(entry, past),
					FieldSize:    len(card.Entries),
					RaceDate:     raceDate,
					FactorScores: scores,
					PastResults:  past,
				}))
				modelRows = append(modelRows, len(results))
			}
		}

		results = append(results, result)
	}

	if len(featureRows) > 0 {
		probs, err := predictor.PredictProba(ctx, featureRows)
		if err != nil {
			return nil, fmt.Errorf("predict race %s: %w", card.RaceID, err)
		}
		for i, idx := range modelRows {
			results[idx].MLProbability = clampUnit(probs[i])
		}
	}

	s.combineAndRank(results)
	return results, nil
}

// horseLookup fetches the card's horse master records in one round
// trip. Without a horse source the pedigree inputs stay empty.
func (s *Service) horseLookup(ctx context.Context, card models.RaceCard) (map[string]models.Horse, error) {
	if s.horses == nil {
		return nil, nil
	}
	ids := make([]string, len(card.Entries))
	for i, entry := range card.Entries {
		ids[i] = entry.HorseID
	}
	horses, err := s.horses.GetHorses(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch horses for %s: %w", card.RaceID, err)
	}
	return horses, nil
}

// factorContext assembles the calculation context for one entry.
func (s *Service) factorContext(card models.RaceCard, entry models.RaceEntry, past []models.PastResult, horse models.Horse) factors.Context {
	ids := make([]string, len(past))
	for i, r := range past {
		ids[i] = r.RaceID
	}

	fctx := factors.Context{
		HorseID:        entry.HorseID,
		PastResults:    past,
		PastRaceIDs:    ids,
		Presorted:      true,
		TargetSurface:  card.Surface,
		TargetDistance: card.Distance,
		TrackCondition: card.TrackCondition,
		Venue:          card.Venue,
		Sire:           horse.Sire,
		DamSire:        horse.DamSire,
	}

	switch s.marketMode {
	case MarketDataHistorical:
		// Stored cards carry no market snapshot; fall back to the most
		// recent past-race row.
		fctx.Odds = past[0].Odds
		fctx.Popularity = past[0].Popularity
	default:
		fctx.Odds = entry.Odds
		fctx.Popularity = entry.Popularity
	}
	return fctx
}

// featureEntry returns the entry with raw market fields resolved for
// the feature builder, following the same mode switch as the factors.
func (s *Service) featureEntry(entry models.RaceEntry, past []models.PastResult) models.RaceEntry {
	if s.marketMode == MarketDataHistorical {
		entry.Odds = past[0].Odds
		entry.Popularity = past[0].Popularity
	}
	return entry
}

// combineAndRank computes combined scores, sorts, and assigns ranks
// in place.
func (s *Service) combineAndRank(results []models.PredictionResult) {
	var maxProb float64
	for _, r := range results {
		if r.MLProbability > maxProb {
			maxProb = r.MLProbability
		}
	}

	for i := range results {
		total, ok := results[i].TotalScore.Value()
		if !ok || maxProb <= 0 {
			results[i].CombinedScore = models.NoScore()
			continue
		}
		normalized := results[i].MLProbability / maxProb * 100
		combined := s.alpha*normalized + (1-s.alpha)*total
		results[i].CombinedScore = models.NewScore(combined).Rounded()
	}

	sort.SliceStable(results, func(i, j int) bool {
		ci := results[i].CombinedScore.ValueOr(0)
		cj := results[j].CombinedScore.ValueOr(0)
		if ci != cj {
			return ci > cj
		}
		if results[i].MLProbability != results[j].MLProbability {
			return results[i].MLProbability > results[j].MLProbability
		}
		return results[i].HorseNumber < results[j].HorseNumber
	})
	for i := range results {
		results[i].Rank = i + 1
	}
}

func emptyFactorScores() map[string]models.Score {
	scores := make(map[string]models.Score, len(factors.FactorNames))
	for _, name := range factors.FactorNames {
		scores[name] = models.NoScore()
	}
	return scores
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
