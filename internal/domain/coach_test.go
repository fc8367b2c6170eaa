package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpecialty(t *testing.T) {
	got, err := ParseSpecialty("NuTrItIoN")
	require.NoError(t, err)
	assert.Equal(t, SpecialtyNutrition, got)

	got, err = ParseSpecialty("")
	require.NoError(t, err)
	assert.Equal(t, SpecialtyHealth, got)

	_, err = ParseSpecialty("astrology")
	assert.Error(t, err)
}

func TestCoachRecordValidate(t *testing.T) {
	valid := CoachRecord{ID: "c1", Name: "Ana", Specialty: SpecialtySleep, Rating: Float(4.2), ReviewCount: Int(3)}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*CoachRecord)
	}{
		{name: "missing id", mutate: func(c *CoachRecord) { c.ID = "" }},
		{name: "missing name", mutate: func(c *CoachRecord) { c.Name = "" }},
		{name: "rating above five", mutate: func(c *CoachRecord) { c.Rating = Float(5.1) }},
		{name: "negative rating", mutate: func(c *CoachRecord) { c.Rating = Float(-1) }},
		{name: "negative reviews", mutate: func(c *CoachRecord) { c.ReviewCount = Int(-4) }},
		{name: "unknown specialty", mutate: func(c *CoachRecord) { c.Specialty = "astrology" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := valid.Clone()
			tt.mutate(&rec)
			assert.Error(t, rec.Validate())
		})
	}
}

func TestRatingsDefaults(t *testing.T) {
	c := CoachRecord{}
	assert.Equal(t, DefaultDisplayRating, c.DisplayRating())
	assert.Equal(t, 0.0, c.SortRating())

	c.Rating = Float(3.5)
	assert.Equal(t, 3.5, c.DisplayRating())
	assert.Equal(t, 3.5, c.SortRating())
}

func TestCloneIsDeep(t *testing.T) {
	c := CoachRecord{ID: "x", Rating: Float(4)}
	clone := c.Clone()
	*clone.Rating = 1
	assert.Equal(t, 4.0, *c.Rating)
}
