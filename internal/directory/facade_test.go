package directory

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biruk-1/Health-coach-sub000/internal/config"
	"github.com/biruk-1/Health-coach-sub000/internal/domain"
	"github.com/biruk-1/Health-coach-sub000/internal/remote"
)

type stubRemote struct {
	page      *domain.PageResult
	listErr   error
	record    *domain.CoachRecord
	getErr    error
	listCalls atomic.Int32
	getCalls  atomic.Int32
}

func (s *stubRemote) ListCoaches(ctx context.Context, q domain.SearchQuery) (*domain.PageResult, error) {
	s.listCalls.Add(1)
	if s.listErr != nil {
		return nil, s.listErr
	}
	res := *s.page
	return &res, nil
}

func (s *stubRemote) GetCoach(ctx context.Context, id string) (*domain.CoachRecord, error) {
	s.getCalls.Add(1)
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.record, nil
}

func TestSearchRemoteFailureFallsBackToSynthetic(t *testing.T) {
	rem := &stubRemote{listErr: fmt.Errorf("%w: connection refused", remote.ErrUnavailable)}
	cache := NewCache(CacheOptions{Bulk: &stubBulk{err: errBoom}, SyntheticSize: 300})
	f := NewFacade(rem, cache, FacadeOptions{})

	res := f.Search(context.Background(), domain.SearchQuery{Page: 1, PageSize: 10})

	assert.Greater(t, res.Total, 0)
	assert.Len(t, res.Coaches, 10)
	assert.Equal(t, domain.SourceCache, res.Source)
	assert.Equal(t, SourceSynthetic, f.Stats().Source)
}

func TestSearchRemoteSuccessPassesThrough(t *testing.T) {
	rem := &stubRemote{page: &domain.PageResult{
		Coaches:  []domain.CoachRecord{coach("r1", domain.SpecialtyFitness, 4.1)},
		Total:    1,
		Page:     1,
		PageSize: 20, TotalPages: 1,
	}}
	bulk := &stubBulk{}
	f := NewFacade(rem, NewCache(CacheOptions{Bulk: bulk}), FacadeOptions{})

	res := f.Search(context.Background(), domain.SearchQuery{Specialty: "fitness"})

	assert.Equal(t, domain.SourceRemote, res.Source)
	require.Len(t, res.Coaches, 1)
	assert.Equal(t, "r1", res.Coaches[0].ID)
	assert.Zero(t, bulk.calls.Load(), "cache untouched when remote answers")
}

func TestSearchEmptyResultPolicy(t *testing.T) {
	empty := &domain.PageResult{Coaches: []domain.CoachRecord{}, Page: 1, PageSize: 20}

	t.Run("empty is a legitimate answer", func(t *testing.T) {
		f := NewFacade(&stubRemote{page: empty}, NewCache(CacheOptions{}), FacadeOptions{})
		res := f.Search(context.Background(), domain.SearchQuery{SearchTerm: "zzz"})
		assert.Equal(t, domain.SourceRemote, res.Source)
		assert.Zero(t, res.Total)
	})

	t.Run("empty triggers fallback", func(t *testing.T) {
		cache := NewCache(CacheOptions{SyntheticSize: 100})
		f := NewFacade(&stubRemote{page: empty}, cache, FacadeOptions{EmptyResultIsFallbackTrigger: true})
		res := f.Search(context.Background(), domain.SearchQuery{})
		assert.Equal(t, domain.SourceCache, res.Source)
		assert.Equal(t, 100, res.Total)
	})
}

func TestSearchWithoutRemoteUsesCache(t *testing.T) {
	cache := NewCache(CacheOptions{})
	preload(cache, []domain.CoachRecord{coach("only", domain.SpecialtySleep, 4)})
	f := NewFacade(nil, cache, FacadeOptions{})

	res := f.Search(context.Background(), domain.SearchQuery{})
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, domain.SourceCache, res.Source)
}

func TestGetByIDRemoteHit(t *testing.T) {
	rec := coach("r9", domain.SpecialtyMental, 4.9)
	f := NewFacade(&stubRemote{record: &rec}, NewCache(CacheOptions{}), FacadeOptions{})

	got := f.GetByID(context.Background(), "r9")
	require.NotNil(t, got)
	assert.Equal(t, "r9", got.ID)
}

func TestGetByIDRemoteNotFoundPeeksLocally(t *testing.T) {
	fetcher := &stubFetcher{}
	f := NewFacade(&stubRemote{}, NewCache(CacheOptions{Fetcher: fetcher}), FacadeOptions{})
	ctx := context.Background()

	assert.NotNil(t, f.GetByID(ctx, "coach-aisha-patel"))
	assert.Nil(t, f.GetByID(ctx, "unknown"))
	assert.Zero(t, fetcher.calls.Load())
}

func TestGetByIDRemoteErrorUsesCacheLookup(t *testing.T) {
	fetched := coach("fetched", domain.SpecialtySleep, 3.9)
	fetcher := &stubFetcher{record: &fetched}
	rem := &stubRemote{getErr: &remote.StatusError{Method: http.MethodGet, StatusCode: http.StatusServiceUnavailable}}
	f := NewFacade(rem, NewCache(CacheOptions{Fetcher: fetcher}), FacadeOptions{})

	got := f.GetByID(context.Background(), "fetched")
	require.NotNil(t, got)
	assert.EqualValues(t, 1, fetcher.calls.Load())
}

func TestGetByIDEmptyID(t *testing.T) {
	rem := &stubRemote{}
	f := NewFacade(rem, NewCache(CacheOptions{}), FacadeOptions{})
	assert.Nil(t, f.GetByID(context.Background(), "  "))
	assert.Zero(t, rem.getCalls.Load())
}

func TestGetByIDHangingRemoteTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client, err := remote.NewClient(config.RemoteConfig{BaseURL: srv.URL, LookupTimeout: 200 * time.Millisecond})
	require.NoError(t, err)

	cache := NewCache(CacheOptions{Bulk: &stubBulk{err: errBoom}, Fetcher: client})
	f := NewFacade(client, cache, FacadeOptions{})

	start := time.Now()
	rec := f.GetByID(context.Background(), "coach-sarah-johnson")
	elapsed := time.Since(start)

	require.NotNil(t, rec)
	assert.Equal(t, "Sarah Johnson", rec.Name)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestFallbackReason(t *testing.T) {
	assert.Equal(t, ReasonTimeout, fallbackReason(fmt.Errorf("x: %w", remote.ErrLookupTimeout)))
	assert.Equal(t, ReasonUnavailable, fallbackReason(fmt.Errorf("x: %w", remote.ErrUnavailable)))
	assert.Equal(t, ReasonStatus, fallbackReason(&remote.StatusError{StatusCode: 500}))
	assert.Equal(t, ReasonMalformed, fallbackReason(&remote.ParseError{Err: errBoom}))
	assert.Equal(t, ReasonError, fallbackReason(errBoom))
}
