package factors

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/yourusername/keiba-engine/internal/models"
)

// DefaultCacheCapacity bounds the factor cache when no explicit
// capacity is configured.
const DefaultCacheCapacity = 100_000

// Cache is a bounded LRU for computed factor scores. Absent scores are
// cached like any other result because recomputing them costs the same
// as a real score. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used

	hits   uint64
	misses uint64
}

type cacheEntry struct {
	key   string
	score models.Score
}

// CacheStats is a point-in-time snapshot of cache effectiveness.
type CacheStats struct {
	Hits     uint64
	Misses   uint64
	Size     int
	Capacity int
}

// HitRate returns hits over total lookups, or zero before any lookup.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// NewCache creates an LRU cache holding at most capacity entries.
func NewCache(capacity int) (*Cache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("factor cache: capacity must be positive, got %d", capacity)
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
	}, nil
}

// Get returns the cached score for key and marks it most recently
// used. The second return reports whether the key was present.
func (c *Cache) Get(key string) (models.Score, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return models.NoScore(), false
	}
	c.hits++
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).score, true
}

// Put stores a score under key, evicting the least recently used
// entry when the cache is full.
func (c *Cache) Put(key string, score models.Score) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).score = score
		c.order.MoveToFront(el)
		return
	}
	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, score: score})
}

// Stats snapshots the hit and miss counters and current occupancy.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Hits:     c.hits,
		Misses:   c.misses,
		Size:     c.order.Len(),
		Capacity: c.capacity,
	}
}

// Clear drops every entry and resets the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element, c.capacity)
	c.order.Init()
	c.hits = 0
	c.misses = 0
}

// Fingerprint derives a stable cache key from the factor name, the
// horse, its ordered past-race set, and any factor-specific
// parameters. Params are serialized in sorted key order so insertion
// order cannot change the fingerprint.
func Fingerprint(factor, horseID string, pastRaceIDs []string, params map[string]string) string {
	var b strings.Builder
	b.WriteString(factor)
	b.WriteByte('|')
	b.WriteString(horseID)
	b.WriteByte('|')
	for _, id := range pastRaceIDs {
		b.WriteString(id)
		b.WriteByte(',')
	}
	b.WriteByte('|')

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
		b.WriteByte(';')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
