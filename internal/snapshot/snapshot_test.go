package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biruk-1/Health-coach-sub000/internal/domain"
	"github.com/biruk-1/Health-coach-sub000/internal/synthetic"
)

func TestEncodeDecode(t *testing.T) {
	records := synthetic.New(5).Generate(20)
	savedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	data, err := Encode(records, savedAt)
	require.NoError(t, err)

	got, at, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, records, got)
	assert.True(t, savedAt.Equal(at))
}

func TestDecodeMisses(t *testing.T) {
	empty, err := Encode(nil, time.Now())
	require.NoError(t, err)
	_, _, err = Decode(empty)
	assert.ErrorIs(t, err, ErrMiss)

	_, _, err = Decode([]byte(`{"version":99,"coaches":[{"id":"a","name":"A","specialty":"health"}]}`))
	assert.ErrorIs(t, err, ErrMiss)

	bad, err := Encode([]domain.CoachRecord{{ID: "a", Name: "A", Specialty: domain.SpecialtyHealth, Rating: domain.Float(8)}}, time.Now())
	require.NoError(t, err)
	_, _, err = Decode(bad)
	assert.ErrorIs(t, err, ErrMiss)

	_, _, err = Decode([]byte("not json"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}
