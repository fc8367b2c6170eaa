package synthetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	a := New(7).Generate(200)
	b := New(7).Generate(200)
	assert.Equal(t, a, b)

	c := New(8).Generate(200)
	assert.NotEqual(t, a, c)
}

func TestGenerateKeepsFallbackPrefix(t *testing.T) {
	records := New(42).Generate(50)
	require.Len(t, records, 50)

	fallback := FallbackRecords()
	for i, rec := range fallback {
		assert.Equal(t, rec, records[i])
	}
}

func TestGenerateSmallCountReturnsFallbackSet(t *testing.T) {
	records := New(42).Generate(1)
	assert.Len(t, records, len(FallbackRecords()))
}

func TestGeneratedRecordsAreWellFormed(t *testing.T) {
	records := New(42).Generate(DefaultSize)
	require.Len(t, records, DefaultSize)

	ids := make(map[string]struct{}, len(records))
	for _, rec := range records {
		require.NoError(t, rec.Validate(), rec.ID)

		_, dup := ids[rec.ID]
		require.False(t, dup, "duplicate id %s", rec.ID)
		ids[rec.ID] = struct{}{}

		require.NotNil(t, rec.Rating)
		assert.GreaterOrEqual(t, *rec.Rating, 3.0)
		assert.LessOrEqual(t, *rec.Rating, 5.0)
		require.NotNil(t, rec.Price)
		assert.Greater(t, *rec.Price, 0.0)
		require.NotNil(t, rec.ReviewCount)
		assert.GreaterOrEqual(t, *rec.ReviewCount, 0)
	}
}

func TestGeneratedFlagsFollowConfiguredRates(t *testing.T) {
	records := New(3).Generate(DefaultSize)

	var verified, online int
	for _, rec := range records {
		if rec.Verified {
			verified++
		}
		if rec.Online {
			online++
		}
	}
	n := float64(len(records))
	assert.InDelta(t, verifiedChance, float64(verified)/n, 0.03)
	assert.InDelta(t, onlineChance, float64(online)/n, 0.03)
}

func TestFindFallback(t *testing.T) {
	rec := FindFallback("coach-marcus-chen")
	require.NotNil(t, rec)
	assert.Equal(t, "Marcus Chen", rec.Name)

	rec.Name = "changed"
	assert.Equal(t, "Marcus Chen", FindFallback("coach-marcus-chen").Name)

	assert.Nil(t, FindFallback("nope"))
}
