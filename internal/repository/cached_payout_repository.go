package repository

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/yourusername/keiba-engine/internal/models"
)

// CachedPayoutRepository wraps a PayoutRepository with a TTL cache.
// Payouts are immutable once recorded, so the TTL only bounds memory.
// Misses (models.ErrNoPayoutData) are not cached; a missing payout may
// simply not have been ingested yet.
type CachedPayoutRepository struct {
	inner PayoutRepository
	cache *gocache.Cache
}

// NewCachedPayoutRepository creates a caching payout repository.
func NewCachedPayoutRepository(inner PayoutRepository, ttl time.Duration) *CachedPayoutRepository {
	return &CachedPayoutRepository{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func payoutKey(betType, raceID string) string {
	return fmt.Sprintf("%s:%s", betType, raceID)
}

// GetShowPayouts retrieves show payouts, serving repeats from cache.
func (r *CachedPayoutRepository) GetShowPayouts(ctx context.Context, raceID string) ([]models.ShowPayout, error) {
	key := payoutKey(betTypeShow, raceID)
	if cached, found := r.cache.Get(key); found {
		return cached.([]models.ShowPayout), nil
	}

	payouts, err := r.inner.GetShowPayouts(ctx, raceID)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(key, payouts)
	return payouts, nil
}

// GetWinPayout retrieves the win payout, serving repeats from cache.
func (r *CachedPayoutRepository) GetWinPayout(ctx context.Context, raceID string) (models.WinPayout, error) {
	key := payoutKey(betTypeWin, raceID)
	if cached, found := r.cache.Get(key); found {
		return cached.(models.WinPayout), nil
	}

	payout, err := r.inner.GetWinPayout(ctx, raceID)
	if err != nil {
		return models.WinPayout{}, err
	}
	r.cache.SetDefault(key, payout)
	return payout, nil
}

// GetQuinellaPayout retrieves the quinella payout, serving repeats
// from cache.
func (r *CachedPayoutRepository) GetQuinellaPayout(ctx context.Context, raceID string) (models.QuinellaPayout, error) {
	key := payoutKey(betTypeQuinella, raceID)
	if cached, found := r.cache.Get(key); found {
		return cached.(models.QuinellaPayout), nil
	}

	payout, err := r.inner.GetQuinellaPayout(ctx, raceID)
	if err != nil {
		return models.QuinellaPayout{}, err
	}
	r.cache.SetDefault(key, payout)
	return payout, nil
}

// GetTrioPayout retrieves the trio payout, serving repeats from cache.
func (r *CachedPayoutRepository) GetTrioPayout(ctx context.Context, raceID string) (models.TrioPayout, error) {
	key := payoutKey(betTypeTrio, raceID)
	if cached, found := r.cache.Get(key); found {
		return cached.(models.TrioPayout), nil
	}

	payout, err := r.inner.GetTrioPayout(ctx, raceID)
	if err != nil {
		return models.TrioPayout{}, err
	}
	r.cache.SetDefault(key, payout)
	return payout, nil
}

// Flush empties the cache.
func (r *CachedPayoutRepository) Flush() {
	r.cache.Flush()
}
