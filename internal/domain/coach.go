package domain

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Specialty is the coaching focus of a record.
type Specialty string

const (
	SpecialtyNutrition Specialty = "nutrition"
	SpecialtyFitness   Specialty = "fitness"
	SpecialtyMental    Specialty = "mental"
	SpecialtySleep     Specialty = "sleep"
	SpecialtyWellness  Specialty = "wellness"
	// SpecialtyHealth is used when no specific focus is known.
	SpecialtyHealth Specialty = "health"
)

// SpecialtyAll is the query sentinel that disables the specialty filter.
const SpecialtyAll = "all"

// Specialties lists every valid specialty.
var Specialties = []Specialty{
	SpecialtyNutrition,
	SpecialtyFitness,
	SpecialtyMental,
	SpecialtySleep,
	SpecialtyWellness,
	SpecialtyHealth,
}

// ParseSpecialty accepts any casing. An empty value is SpecialtyHealth.
func ParseSpecialty(s string) (Specialty, error) {
	v := Specialty(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return SpecialtyHealth, nil
	}
	for _, known := range Specialties {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown specialty %q", s)
}

// DefaultDisplayRating is shown for coaches without a rating.
const DefaultDisplayRating = 5.0

// CoachRecord is one coach's public directory profile.
type CoachRecord struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Bio         string    `json:"bio"`
	Specialty   Specialty `json:"specialty" validate:"oneof=nutrition fitness mental sleep wellness health"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Rating      *float64  `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	ReviewCount *int      `json:"reviewCount,omitempty" validate:"omitempty,gte=0"`
	Verified    bool      `json:"verified"`
	Online      bool      `json:"online"`
	Experience  int       `json:"experience" validate:"gte=0"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Location    string    `json:"location,omitempty"`
	Address     string    `json:"address,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Website     string    `json:"website,omitempty"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks the record invariants.
func (c *CoachRecord) Validate() error {
	if err := recordValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid coach record %q: %w", c.ID, err)
	}
	return nil
}

// DisplayRating is the rating shown to users.
func (c *CoachRecord) DisplayRating() float64 {
	if c.Rating == nil {
		return DefaultDisplayRating
	}
	return *c.Rating
}

// SortRating is the rating used for ordering; a missing rating sorts last.
func (c *CoachRecord) SortRating() float64 {
	if c.Rating == nil {
		return 0
	}
	return *c.Rating
}

// Clone returns a deep copy so cached records cannot be mutated by callers.
func (c CoachRecord) Clone() CoachRecord {
	out := c
	if c.Price != nil {
		v := *c.Price
		out.Price = &v
	}
	if c.Rating != nil {
		v := *c.Rating
		out.Rating = &v
	}
	if c.ReviewCount != nil {
		v := *c.ReviewCount
		out.ReviewCount = &v
	}
	return out
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
