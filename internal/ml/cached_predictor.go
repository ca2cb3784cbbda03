package ml

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// CachedPredictor memoizes PredictProba results for identical feature
// matrices. During a backtest the same race can be scored repeatedly
// (factor-only and combined passes); the TTL keeps entries from
// outliving a retrain cycle.
type CachedPredictor struct {
	inner  Predictor
	cache  *gocache.Cache
	logger *logrus.Logger

	hits   uint64
	misses uint64
}

// NewCachedPredictor wraps a predictor with a TTL cache.
func NewCachedPredictor(inner Predictor, ttl time.Duration, logger *logrus.Logger) *CachedPredictor {
	if logger == nil {
		logger = logrus.New()
	}
	return &CachedPredictor{
		inner:  inner,
		cache:  gocache.New(ttl, ttl*2),
		logger: logger,
	}
}

func (p *CachedPredictor) PredictProba(ctx context.Context, features [][]float64) ([]float64, error) {
	key := featureMatrixKey(features)
	if cached, found := p.cache.Get(key); found {
		atomic.AddUint64(&p.hits, 1)
		probs := cached.([]float64)
		out := make([]float64, len(probs))
		copy(out, probs)
		return out, nil
	}
	atomic.AddUint64(&p.misses, 1)

	probs, err := p.inner.PredictProba(ctx, features)
	if err != nil {
		return nil, err
	}
	stored := make([]float64, len(probs))
	copy(stored, probs)
	p.cache.Set(key, stored, gocache.DefaultExpiration)
	return probs, nil
}

// Stats returns hit and miss counts.
func (p *CachedPredictor) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&p.hits), atomic.LoadUint64(&p.misses)
}

// Flush drops every cached prediction. Call after a model swap.
func (p *CachedPredictor) Flush() {
	p.cache.Flush()
}

func featureMatrixKey(features [][]float64) string {
	h := sha256.New()
	var buf [8]byte
	for _, row := range features {
		for _, v := range row {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
		h.Write([]byte{0xff})
	}
	return hex.EncodeToString(h.Sum(nil))
}
