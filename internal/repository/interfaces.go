package repository

import (
	"context"
	"time"

	"github.com/yourusername/keiba-engine/internal/models"
)

// RaceRepository defines the interface for race data access
type RaceRepository interface {
	GetByID(ctx context.Context, id string) (*models.Race, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Race, error)
	GetBefore(ctx context.Context, cutoff time.Time) ([]models.Race, error)
	GetRaceCard(ctx context.Context, raceID string) (models.RaceCard, error)
}

// RaceResultRepository defines the interface for result data access
type RaceResultRepository interface {
	GetByRaceID(ctx context.Context, raceID string) ([]models.RaceResult, error)
	// GetPastResults returns a horse's results in races run strictly
	// before the given date, most recent first.
	GetPastResults(ctx context.Context, horseID string, before time.Time, limit int) ([]models.PastResult, error)
}

// HorseRepository defines the interface for horse metadata access
type HorseRepository interface {
	GetByID(ctx context.Context, id string) (*models.Horse, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]models.Horse, error)
}

// PayoutRepository defines the interface for official payout access
type PayoutRepository interface {
	GetShowPayouts(ctx context.Context, raceID string) ([]models.ShowPayout, error)
	GetWinPayout(ctx context.Context, raceID string) (models.WinPayout, error)
	GetQuinellaPayout(ctx context.Context, raceID string) (models.QuinellaPayout, error)
	GetTrioPayout(ctx context.Context, raceID string) (models.TrioPayout, error)
}
