package repository

import (
	"fmt"
	"time"

	"github.com/yourusername/keiba-engine/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Race       RaceRepository
	RaceResult RaceResultRepository
	Horse      HorseRepository
	Payout     PayoutRepository
}

// NewRepositories creates and returns all repository implementations.
// Payout lookups are cached because the simulators re-read the same
// races across bet types.
func NewRepositories(db *database.DB, payoutCacheTTL time.Duration) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	payout := PayoutRepository(NewPostgresPayoutRepository(db))
	if payoutCacheTTL > 0 {
		payout = NewCachedPayoutRepository(payout, payoutCacheTTL)
	}

	return &Repositories{
		Race:       NewPostgresRaceRepository(db),
		RaceResult: NewPostgresRaceResultRepository(db),
		Horse:      NewPostgresHorseRepository(db),
		Payout:     payout,
	}, nil
}
