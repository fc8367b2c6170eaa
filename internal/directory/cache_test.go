package directory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biruk-1/Health-coach-sub000/internal/domain"
	"github.com/biruk-1/Health-coach-sub000/internal/synthetic"
)

func TestQueryScenarioFitnessPage(t *testing.T) {
	c := NewCache(CacheOptions{})
	preload(c, []domain.CoachRecord{
		coach("f2", domain.SpecialtyFitness, 4.8),
		coach("n1", domain.SpecialtyNutrition, 5.0),
		coach("f3", domain.SpecialtyFitness, 4.7),
		coach("f1", domain.SpecialtyFitness, 4.9),
		coach("n2", domain.SpecialtyNutrition, 4.1),
	})

	res := c.Query(context.Background(), domain.SearchQuery{Specialty: "fitness", Page: 1, PageSize: 2})

	require.Len(t, res.Coaches, 2)
	assert.Equal(t, "f1", res.Coaches[0].ID)
	assert.Equal(t, "f2", res.Coaches[1].ID)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, domain.SourceCache, res.Source)
}

func TestQueryPageSizeBounds(t *testing.T) {
	c := NewCache(CacheOptions{SyntheticSize: 503})
	ctx := context.Background()

	for _, size := range []int{1, 7, 20, 100} {
		first := c.Query(ctx, domain.SearchQuery{PageSize: size})
		require.Equal(t, (first.Total+size-1)/size, first.TotalPages)

		for page := 1; page <= first.TotalPages; page++ {
			res := c.Query(ctx, domain.SearchQuery{Page: page, PageSize: size})
			assert.LessOrEqual(t, len(res.Coaches), size)
			if page < res.TotalPages {
				assert.Len(t, res.Coaches, size, "page %d of %d", page, res.TotalPages)
			}
		}
	}
}

func TestQueryClampsPage(t *testing.T) {
	c := NewCache(CacheOptions{})
	preload(c, []domain.CoachRecord{
		coach("a", domain.SpecialtySleep, 4),
		coach("b", domain.SpecialtySleep, 3),
		coach("c", domain.SpecialtySleep, 2),
	})
	ctx := context.Background()

	res := c.Query(ctx, domain.SearchQuery{Page: 99, PageSize: 2})
	assert.Equal(t, 2, res.Page)
	require.Len(t, res.Coaches, 1)
	assert.Equal(t, "c", res.Coaches[0].ID)

	res = c.Query(ctx, domain.SearchQuery{Page: -3, PageSize: 2})
	assert.Equal(t, 1, res.Page)

	empty := c.Query(ctx, domain.SearchQuery{Specialty: "mental", Page: 5})
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 0, empty.TotalPages)
	assert.NotNil(t, empty.Coaches)
	assert.Empty(t, empty.Coaches)
}

func TestQuerySpecialtyFilterIsCaseInsensitiveAndIdempotent(t *testing.T) {
	c := NewCache(CacheOptions{Generator: synthetic.New(11), SyntheticSize: 400})
	ctx := context.Background()
	q := domain.SearchQuery{Specialty: "NUTRITION", PageSize: domain.MaxPageSize}

	first := c.Query(ctx, q)
	require.NotZero(t, first.Total)
	for _, rec := range first.Coaches {
		assert.Equal(t, domain.SpecialtyNutrition, rec.Specialty)
	}

	second := c.Query(ctx, q)
	assert.Equal(t, first, second)

	all := c.Query(ctx, domain.SearchQuery{Specialty: "all"})
	assert.Equal(t, c.Len(), all.Total)
}

func TestQuerySortsByRatingDescending(t *testing.T) {
	c := NewCache(CacheOptions{})
	preload(c, []domain.CoachRecord{
		{ID: "unrated", Name: "Unrated", Specialty: domain.SpecialtyHealth},
		coach("mid", domain.SpecialtyHealth, 3.5),
		coach("top", domain.SpecialtyHealth, 4.9),
		coach("low", domain.SpecialtyHealth, 1.0),
	})

	res := c.Query(context.Background(), domain.SearchQuery{})
	require.Len(t, res.Coaches, 4)
	for i := 1; i < len(res.Coaches); i++ {
		assert.GreaterOrEqual(t, res.Coaches[i-1].SortRating(), res.Coaches[i].SortRating())
	}
	assert.Equal(t, "unrated", res.Coaches[3].ID)
}

func TestQueryRatingAndTermFilters(t *testing.T) {
	c := NewCache(CacheOptions{})
	yoga := coach("y", domain.SpecialtyWellness, 4.6)
	yoga.Bio = "Vinyasa YOGA classes"
	preload(c, []domain.CoachRecord{
		yoga,
		coach("s", domain.SpecialtySleep, 4.2),
		{ID: "unrated", Name: "Unrated Sleep", Specialty: domain.SpecialtySleep},
	})
	ctx := context.Background()

	res := c.Query(ctx, domain.SearchQuery{MinRating: domain.Float(4.5)})
	require.Len(t, res.Coaches, 1)
	assert.Equal(t, "y", res.Coaches[0].ID)

	res = c.Query(ctx, domain.SearchQuery{SearchTerm: "yoga"})
	require.Len(t, res.Coaches, 1)
	assert.Equal(t, "y", res.Coaches[0].ID)

	res = c.Query(ctx, domain.SearchQuery{SearchTerm: "sleep"})
	assert.Equal(t, 2, res.Total, "specialty text is searchable")
}

func TestEnsureLoadedRespectsTTL(t *testing.T) {
	clock := newManualClock()
	bulk := &stubBulk{records: []domain.CoachRecord{coach("r1", domain.SpecialtyFitness, 4)}}
	c := NewCache(CacheOptions{TTL: 5 * time.Minute, Bulk: bulk, Now: clock.Now})
	ctx := context.Background()

	c.Query(ctx, domain.SearchQuery{})
	clock.Advance(4*time.Minute + 59*time.Second)
	c.Query(ctx, domain.SearchQuery{})
	assert.EqualValues(t, 1, bulk.calls.Load())

	clock.Advance(2 * time.Second)
	c.Query(ctx, domain.SearchQuery{})
	assert.EqualValues(t, 2, bulk.calls.Load())
}

func TestEnsureLoadedBulkMergesFallback(t *testing.T) {
	bulk := &stubBulk{records: []domain.CoachRecord{coach("r1", domain.SpecialtyFitness, 4)}}
	c := NewCache(CacheOptions{Bulk: bulk})

	c.EnsureLoaded(context.Background())

	assert.Equal(t, len(synthetic.FallbackRecords())+1, c.Len())
	assert.Equal(t, SourceBulk, c.Stats().Source)
	assert.NotNil(t, c.Peek("r1"))
}

func TestEnsureLoadedGeneratesSyntheticWhenBulkFails(t *testing.T) {
	c := NewCache(CacheOptions{Bulk: &stubBulk{err: errBoom}, SyntheticSize: 250})

	c.EnsureLoaded(context.Background())

	stats := c.Stats()
	assert.True(t, stats.Loaded)
	assert.Equal(t, SourceSynthetic, stats.Source)
	assert.Equal(t, 250, stats.Records)
}

func TestEnsureLoadedRestoresSnapshotBeforeSynthetic(t *testing.T) {
	snap := &stubSnapshot{records: []domain.CoachRecord{coach("snap1", domain.SpecialtyMental, 4.4)}}
	c := NewCache(CacheOptions{Bulk: &stubBulk{err: errBoom}, Snapshot: snap})

	c.EnsureLoaded(context.Background())

	assert.Equal(t, SourceSnapshot, c.Stats().Source)
	assert.NotNil(t, c.Peek("snap1"))
	assert.Equal(t, len(synthetic.FallbackRecords())+1, c.Len())
}

func TestEnsureLoadedSavesSnapshotAfterBulk(t *testing.T) {
	snap := &stubSnapshot{}
	bulk := &stubBulk{records: []domain.CoachRecord{coach("r1", domain.SpecialtyFitness, 4), coach("r2", domain.SpecialtySleep, 3)}}
	c := NewCache(CacheOptions{Bulk: bulk, Snapshot: snap})

	c.EnsureLoaded(context.Background())

	assert.Eventually(t, func() bool { return snap.savedLen() == 2 }, time.Second, 10*time.Millisecond)
}

func TestEnsureLoadedKeepsRecordsWhenLaterRefreshFails(t *testing.T) {
	clock := newManualClock()
	bulk := &stubBulk{records: []domain.CoachRecord{coach("r1", domain.SpecialtyFitness, 4)}}
	c := NewCache(CacheOptions{Bulk: bulk, Now: clock.Now})
	ctx := context.Background()

	c.EnsureLoaded(ctx)
	before := c.Len()

	bulk.err = errBoom
	clock.Advance(10 * time.Minute)
	c.EnsureLoaded(ctx)

	assert.Equal(t, before, c.Len())
	assert.Equal(t, SourceStale, c.Stats().Source)
	assert.NotNil(t, c.Peek("r1"))
}

func TestEnsureLoadedDeduplicatesConcurrentRefreshes(t *testing.T) {
	bulk := &stubBulk{records: []domain.CoachRecord{coach("r1", domain.SpecialtyFitness, 4)}, delay: 50 * time.Millisecond}
	c := NewCache(CacheOptions{Bulk: bulk})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Query(context.Background(), domain.SearchQuery{})
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, bulk.calls.Load())
}

func TestEnsureLoadedSurvivesCancelledCaller(t *testing.T) {
	bulk := &stubBulk{records: []domain.CoachRecord{coach("r1", domain.SpecialtyFitness, 4)}}
	c := NewCache(CacheOptions{Bulk: bulk})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.EnsureLoaded(ctx)

	assert.Equal(t, SourceBulk, c.Stats().Source)
}

func TestGetByIDFallbackOnlyRecord(t *testing.T) {
	fetcher := &stubFetcher{err: errBoom}
	snap := &stubSnapshot{records: []domain.CoachRecord{coach("snap1", domain.SpecialtyMental, 4.4)}}
	c := NewCache(CacheOptions{Bulk: &stubBulk{err: errBoom}, Fetcher: fetcher, Snapshot: snap})
	ctx := context.Background()

	rec := c.GetByID(ctx, "coach-emily-rodriguez")
	require.NotNil(t, rec)
	assert.Equal(t, "Dr. Emily Rodriguez", rec.Name)
	assert.Zero(t, fetcher.calls.Load(), "hand-authored records are merged on load")

	assert.Nil(t, c.GetByID(ctx, "nobody"))
	assert.EqualValues(t, 1, fetcher.calls.Load())
}

func TestGetByIDFallbackTierWithoutLoad(t *testing.T) {
	c := NewCache(CacheOptions{})
	preload(c, []domain.CoachRecord{coach("only", domain.SpecialtyHealth, 3)})

	rec := c.GetByID(context.Background(), "coach-marcus-chen")
	require.NotNil(t, rec)
	assert.Equal(t, 2, c.Len(), "fallback hit is cached")
}

func TestGetByIDFetchesAndCachesRemoteRecord(t *testing.T) {
	remoteRec := coach("remote-only", domain.SpecialtyFitness, 4.2)
	fetcher := &stubFetcher{record: &remoteRec}
	c := NewCache(CacheOptions{Fetcher: fetcher})
	ctx := context.Background()

	rec := c.GetByID(ctx, "remote-only")
	require.NotNil(t, rec)
	assert.Equal(t, "remote-only", rec.ID)

	require.NotNil(t, c.GetByID(ctx, "remote-only"))
	assert.EqualValues(t, 1, fetcher.calls.Load())
}

func TestPeekNeverUsesFetcher(t *testing.T) {
	fetcher := &stubFetcher{}
	c := NewCache(CacheOptions{Fetcher: fetcher})

	assert.NotNil(t, c.Peek("coach-james-wilson"))
	assert.Nil(t, c.Peek("someone-else"))
	assert.Nil(t, c.Peek(""))
	assert.Zero(t, fetcher.calls.Load())
}

func TestSetVerifiedUpsertAndInvalidate(t *testing.T) {
	clock := newManualClock()
	bulk := &stubBulk{records: []domain.CoachRecord{coach("r1", domain.SpecialtyFitness, 4)}}
	c := NewCache(CacheOptions{Bulk: bulk, Now: clock.Now})
	ctx := context.Background()
	c.EnsureLoaded(ctx)

	assert.True(t, c.SetVerified("r1", true))
	assert.True(t, c.Peek("r1").Verified)
	assert.False(t, c.SetVerified("ghost", true))

	c.Upsert(coach("new", domain.SpecialtySleep, 3))
	assert.NotNil(t, c.Peek("new"))

	rec := c.Peek("new")
	rec.Name = "mutated"
	assert.NotEqual(t, "mutated", c.Peek("new").Name)

	c.Invalidate()
	c.EnsureLoaded(ctx)
	assert.EqualValues(t, 2, bulk.calls.Load())
	assert.Nil(t, c.Peek("new"), "a bulk refresh replaces the dataset")
	assert.False(t, c.Peek("r1").Verified)
}

func TestAllReturnsCopies(t *testing.T) {
	c := NewCache(CacheOptions{})
	preload(c, []domain.CoachRecord{coach("a", domain.SpecialtyHealth, 4)})

	all := c.All(context.Background())
	require.Len(t, all, 1)
	*all[0].Rating = 1
	assert.Equal(t, 4.0, *c.Peek("a").Rating)
}
