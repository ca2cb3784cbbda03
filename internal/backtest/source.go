package backtest

import (
	"context"
	"time"

	"github.com/yourusername/keiba-engine/internal/models"
	"github.com/yourusername/keiba-engine/internal/prediction"
)

// DataSource is everything the engine reads during a run. The engine
// never writes; races and results are recorded by an ingest path
// outside this module.
type DataSource interface {
	prediction.PastResultsSource
	prediction.HorseSource

	// GetRacesByDateRange returns races with date in [start, end],
	// ordered ascending by (date, race_number).
	GetRacesByDateRange(ctx context.Context, start, end time.Time) ([]models.Race, error)

	// GetRacesBefore returns every race strictly before cutoff,
	// ordered ascending by (date, race_number).
	GetRacesBefore(ctx context.Context, cutoff time.Time) ([]models.Race, error)

	// GetRaceCard returns the entry set for a race.
	GetRaceCard(ctx context.Context, raceID string) (models.RaceCard, error)

	// GetRaceResults returns the recorded results for a race.
	GetRaceResults(ctx context.Context, raceID string) ([]models.RaceResult, error)
}
