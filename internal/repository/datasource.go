package repository

import (
	"context"
	"time"

	"github.com/yourusername/keiba-engine/internal/models"
)

// DataSource adapts the repositories to the read interfaces the
// prediction, backtest, and simulation packages consume.
type DataSource struct {
	repos *Repositories
}

// NewDataSource wraps a repository set as a unified read source.
func NewDataSource(repos *Repositories) *DataSource {
	return &DataSource{repos: repos}
}

// GetPastResults returns a horse's results before a date, most recent
// first.
func (s *DataSource) GetPastResults(ctx context.Context, horseID string, before time.Time, limit int) ([]models.PastResult, error) {
	return s.repos.RaceResult.GetPastResults(ctx, horseID, before, limit)
}

// GetHorses returns horse master records keyed by ID. Missing IDs are
// absent from the map.
func (s *DataSource) GetHorses(ctx context.Context, ids []string) (map[string]models.Horse, error) {
	return s.repos.Horse.GetByIDs(ctx, ids)
}

// GetRacesByDateRange returns races with date in [start, end].
func (s *DataSource) GetRacesByDateRange(ctx context.Context, start, end time.Time) ([]models.Race, error) {
	return s.repos.Race.GetByDateRange(ctx, start, end)
}

// GetRacesBefore returns every race strictly before the cutoff.
func (s *DataSource) GetRacesBefore(ctx context.Context, cutoff time.Time) ([]models.Race, error) {
	return s.repos.Race.GetBefore(ctx, cutoff)
}

// GetRaceCard returns the entry set for a race.
func (s *DataSource) GetRaceCard(ctx context.Context, raceID string) (models.RaceCard, error) {
	return s.repos.Race.GetRaceCard(ctx, raceID)
}

// GetRaceResults returns the recorded results for a race.
func (s *DataSource) GetRaceResults(ctx context.Context, raceID string) ([]models.RaceResult, error) {
	return s.repos.RaceResult.GetByRaceID(ctx, raceID)
}

// GetShowPayouts returns the show payouts for a race.
func (s *DataSource) GetShowPayouts(ctx context.Context, raceID string) ([]models.ShowPayout, error) {
	return s.repos.Payout.GetShowPayouts(ctx, raceID)
}

// GetWinPayout returns the win payout for a race.
func (s *DataSource) GetWinPayout(ctx context.Context, raceID string) (models.WinPayout, error) {
	return s.repos.Payout.GetWinPayout(ctx, raceID)
}

// GetQuinellaPayout returns the quinella payout for a race.
func (s *DataSource) GetQuinellaPayout(ctx context.Context, raceID string) (models.QuinellaPayout, error) {
	return s.repos.Payout.GetQuinellaPayout(ctx, raceID)
}

// GetTrioPayout returns the trio payout for a race.
func (s *DataSource) GetTrioPayout(ctx context.Context, raceID string) (models.TrioPayout, error) {
	return s.repos.Payout.GetTrioPayout(ctx, raceID)
}
