package directory

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/biruk-1/Health-coach-sub000/internal/domain"
	"github.com/biruk-1/Health-coach-sub000/internal/metrics"
	"github.com/biruk-1/Health-coach-sub000/internal/snapshot"
	"github.com/biruk-1/Health-coach-sub000/internal/synthetic"
	"github.com/biruk-1/Health-coach-sub000/pkg/log"
)

const (
	DefaultTTL = 5 * time.Minute

	snapshotWriteTimeout = 2 * time.Second
	refreshKey           = "refresh"
)

// Refresh sources.
const (
	SourceBulk      = "bulk"
	SourceSnapshot  = "snapshot"
	SourceSynthetic = "synthetic"
	// SourceStale means the bulk source failed and the previous records were kept.
	SourceStale = "stale"
)

var errNoBulkSource = errors.New("no bulk source configured")

// BulkSource returns the complete directory dataset.
type BulkSource interface {
	ListAll(ctx context.Context) ([]domain.CoachRecord, error)
}

// CoachFetcher looks up a single coach; (nil, nil) means not found.
type CoachFetcher interface {
	GetCoach(ctx context.Context, id string) (*domain.CoachRecord, error)
}

// CacheOptions configures a Cache. Every dependency is optional.
type CacheOptions struct {
	TTL           time.Duration
	Bulk          BulkSource
	Fetcher       CoachFetcher
	Snapshot      snapshot.Store
	Generator     *synthetic.Generator
	SyntheticSize int
	Now           func() time.Time
	Metrics       *metrics.Metrics
}

// Stats describes the cache state.
type Stats struct {
	Loaded      bool      `json:"loaded"`
	Records     int       `json:"records"`
	Source      string    `json:"source,omitempty"`
	LastRefresh time.Time `json:"lastRefresh"`
}

// Cache is the in-memory coach directory. Its methods never fail: when the
// bulk source is unreachable it serves the last snapshot or a synthetic
// dataset.
type Cache struct {
	ttl           time.Duration
	bulk          BulkSource
	fetcher       CoachFetcher
	snap          snapshot.Store
	gen           *synthetic.Generator
	syntheticSize int
	now           func() time.Time
	metrics       *metrics.Metrics

	fallbackIDs map[string]struct{}
	group       singleflight.Group

	mu          sync.RWMutex
	records     []domain.CoachRecord
	index       map[string]int
	loaded      bool
	lastRefresh time.Time
	source      string
}

// NewCache creates an empty cache.
func NewCache(opts CacheOptions) *Cache {
	c := &Cache{
		ttl:           opts.TTL,
		bulk:          opts.Bulk,
		fetcher:       opts.Fetcher,
		snap:          opts.Snapshot,
		gen:           opts.Generator,
		syntheticSize: opts.SyntheticSize,
		now:           opts.Now,
		metrics:       opts.Metrics,
		fallbackIDs:   make(map[string]struct{}),
		index:         make(map[string]int),
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.gen == nil {
		c.gen = synthetic.New(0)
	}
	if c.syntheticSize <= 0 {
		c.syntheticSize = synthetic.DefaultSize
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.metrics == nil {
		c.metrics = metrics.New()
	}
	for _, rec := range synthetic.FallbackRecords() {
		c.fallbackIDs[rec.ID] = struct{}{}
	}
	return c
}

// EnsureLoaded refreshes the cache when it was never loaded or its TTL has
// elapsed. Concurrent callers share one refresh.
func (c *Cache) EnsureLoaded(ctx context.Context) {
	if c.fresh() {
		return
	}

	// The refresh outlives a cancelled caller so other waiters still get data.
	refreshCtx := context.WithoutCancel(ctx)
	c.group.Do(refreshKey, func() (interface{}, error) {
		if c.fresh() {
			return nil, nil
		}
		c.refresh(refreshCtx)
		return nil, nil
	})
}

func (c *Cache) fresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded && c.now().Sub(c.lastRefresh) < c.ttl
}

func (c *Cache) refresh(ctx context.Context) {
	logger := log.Ctx(ctx)
	start := time.Now()

	fallback := synthetic.FallbackRecords()

	source := SourceBulk
	records, err := c.fetchBulk(ctx)
	switch {
	case err == nil:
		c.replace(fallback, records)
		c.saveSnapshot(ctx, records)
	case !c.onlyFallback():
		c.upsertAll(fallback)
		source = SourceStale
		logger.Warn().Err(err).Msg("bulk refresh failed, keeping cached records")
	default:
		logger.Warn().Err(err).Msg("bulk refresh failed, cache empty")
		if restored, snapErr := c.loadSnapshot(ctx); snapErr == nil {
			c.replace(fallback, restored)
			source = SourceSnapshot
		} else {
			logger.Warn().Err(snapErr).Int(log.FieldCount, c.syntheticSize).Msg("no snapshot, generating synthetic dataset")
			c.replace(nil, c.gen.Generate(c.syntheticSize))
			source = SourceSynthetic
		}
	}

	c.mu.Lock()
	c.loaded = true
	c.lastRefresh = c.now()
	c.source = source
	n := len(c.records)
	c.mu.Unlock()

	c.metrics.RecordRefresh(source, time.Since(start).Seconds(), n)
	logger.Info().
		Str(log.FieldSource, source).
		Int(log.FieldCount, n).
		Dur("duration", time.Since(start)).
		Msg("directory cache refreshed")
}

func (c *Cache) fetchBulk(ctx context.Context) ([]domain.CoachRecord, error) {
	if c.bulk == nil {
		return nil, errNoBulkSource
	}
	records, err := c.bulk.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("bulk source returned no records")
	}
	return records, nil
}

func (c *Cache) loadSnapshot(ctx context.Context) ([]domain.CoachRecord, error) {
	if c.snap == nil {
		return nil, snapshot.ErrMiss
	}
	return c.snap.Load(ctx)
}

// saveSnapshot writes records in the background.
func (c *Cache) saveSnapshot(ctx context.Context, records []domain.CoachRecord) {
	if c.snap == nil {
		return
	}
	go func() {
		saveCtx, cancel := context.WithTimeout(ctx, snapshotWriteTimeout)
		defer cancel()
		if err := c.snap.Save(saveCtx, records); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("failed to save directory snapshot")
		}
	}()
}

// onlyFallback reports whether the cache holds nothing but the
// hand-authored records.
func (c *Cache) onlyFallback() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.records {
		if _, ok := c.fallbackIDs[c.records[i].ID]; !ok {
			return false
		}
	}
	return true
}

// replace swaps the whole dataset for base followed by records, where
// records override base entries with the same id.
func (c *Cache) replace(base, records []domain.CoachRecord) {
	next := make([]domain.CoachRecord, 0, len(base)+len(records))
	index := make(map[string]int, len(base)+len(records))
	for _, set := range [][]domain.CoachRecord{base, records} {
		for _, rec := range set {
			if i, ok := index[rec.ID]; ok {
				next[i] = rec
				continue
			}
			index[rec.ID] = len(next)
			next = append(next, rec)
		}
	}

	c.mu.Lock()
	c.records = next
	c.index = index
	c.mu.Unlock()
}

func (c *Cache) upsertAll(records []domain.CoachRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rec := range records {
		c.upsertLocked(rec)
	}
}

func (c *Cache) upsertLocked(rec domain.CoachRecord) {
	if i, ok := c.index[rec.ID]; ok {
		c.records[i] = rec
		return
	}
	c.index[rec.ID] = len(c.records)
	c.records = append(c.records, rec)
}

// Query answers q from memory, loading the cache first if needed.
func (c *Cache) Query(ctx context.Context, q domain.SearchQuery) domain.PageResult {
	c.EnsureLoaded(ctx)

	c.mu.RLock()
	defer c.mu.RUnlock()
	return selectPage(c.records, q)
}

// All returns a copy of every cached record, loading the cache first if
// needed.
func (c *Cache) All(ctx context.Context) []domain.CoachRecord {
	c.EnsureLoaded(ctx)

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.CoachRecord, len(c.records))
	for i := range c.records {
		out[i] = c.records[i].Clone()
	}
	return out
}

// GetByID returns the coach with the given id from memory, then from the
// single-coach fetcher, then from the hand-authored set. A record found
// outside memory is cached. It returns nil when every tier misses.
func (c *Cache) GetByID(ctx context.Context, id string) *domain.CoachRecord {
	if id == "" {
		return nil
	}
	c.EnsureLoaded(ctx)
	if rec := c.lookup(id); rec != nil {
		return rec
	}

	if c.fetcher != nil {
		rec, err := c.fetcher.GetCoach(ctx, id)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str(log.FieldCoachID, id).Msg("single coach fetch failed")
		} else if rec != nil {
			c.Upsert(*rec)
			return rec
		}
	}

	return c.fallback(id)
}

// Peek is GetByID without loading the cache or calling the fetcher.
func (c *Cache) Peek(id string) *domain.CoachRecord {
	if id == "" {
		return nil
	}
	if rec := c.lookup(id); rec != nil {
		return rec
	}
	return c.fallback(id)
}

func (c *Cache) lookup(id string) *domain.CoachRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i, ok := c.index[id]; ok {
		rec := c.records[i].Clone()
		return &rec
	}
	return nil
}

func (c *Cache) fallback(id string) *domain.CoachRecord {
	rec := synthetic.FindFallback(id)
	if rec != nil {
		c.Upsert(*rec)
	}
	return rec
}

// Upsert inserts rec or replaces the record with the same id.
func (c *Cache) Upsert(rec domain.CoachRecord) {
	rec = rec.Clone()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.upsertLocked(rec)
}

// SetVerified sets the verified flag of a cached or hand-authored coach and
// reports whether the coach was found.
func (c *Cache) SetVerified(id string, verified bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[id]
	if !ok {
		rec := synthetic.FindFallback(id)
		if rec == nil {
			return false
		}
		c.upsertLocked(*rec)
		i = c.index[id]
	}
	c.records[i].Verified = verified
	return true
}

// Invalidate marks the cache stale so the next read refreshes it. Cached
// records stay available until then.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastRefresh = time.Time{}
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Stats returns a snapshot of the cache state.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Loaded:      c.loaded,
		Records:     len(c.records),
		Source:      c.source,
		LastRefresh: c.lastRefresh,
	}
}
