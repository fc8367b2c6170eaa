package directory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/biruk-1/Health-coach-sub000/internal/domain"
	"github.com/biruk-1/Health-coach-sub000/internal/snapshot"
)

var errBoom = errors.New("boom")

type stubBulk struct {
	records []domain.CoachRecord
	err     error
	delay   time.Duration
	calls   atomic.Int32
}

func (s *stubBulk) ListAll(ctx context.Context) ([]domain.CoachRecord, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.CoachRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

type stubFetcher struct {
	record *domain.CoachRecord
	err    error
	calls  atomic.Int32
}

func (s *stubFetcher) GetCoach(ctx context.Context, id string) (*domain.CoachRecord, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	if s.record == nil || s.record.ID != id {
		return nil, nil
	}
	rec := s.record.Clone()
	return &rec, nil
}

type stubSnapshot struct {
	mu      sync.Mutex
	records []domain.CoachRecord
	saved   []domain.CoachRecord
}

func (s *stubSnapshot) Load(ctx context.Context) ([]domain.CoachRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		return nil, snapshot.ErrMiss
	}
	return s.records, nil
}

func (s *stubSnapshot) Save(ctx context.Context, records []domain.CoachRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = records
	return nil
}

func (s *stubSnapshot) savedLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func coach(id string, spec domain.Specialty, rating float64) domain.CoachRecord {
	return domain.CoachRecord{
		ID:        id,
		Name:      "Coach " + id,
		Bio:       "Bio of " + id,
		Specialty: spec,
		Rating:    domain.Float(rating),
	}
}

// preload replaces the cache contents with exactly records and marks it fresh.
func preload(c *Cache, records []domain.CoachRecord) {
	c.replace(nil, records)
	c.mu.Lock()
	c.loaded = true
	c.lastRefresh = c.now()
	c.mu.Unlock()
}
