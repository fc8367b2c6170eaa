package synthetic

import "github.com/biruk-1/Health-coach-sub000/internal/domain"

// fallbackRecords are the hand-authored coaches that are always present in
// the directory, whatever the state of the remote service.
var fallbackRecords = []domain.CoachRecord{
	{
		ID:          "coach-sarah-johnson",
		Name:        "Sarah Johnson",
		Bio:         "Registered dietitian helping busy professionals build sustainable eating habits.",
		Specialty:   domain.SpecialtyNutrition,
		Price:       domain.Float(85),
		Rating:      domain.Float(4.9),
		ReviewCount: domain.Int(127),
		Verified:    true,
		Online:      true,
		Experience:  8,
		AvatarURL:   "https://randomuser.me/api/portraits/women/44.jpg",
		Location:    "San Francisco, CA",
	},
	{
		ID:          "coach-marcus-chen",
		Name:        "Marcus Chen",
		Bio:         "Strength and conditioning coach focused on functional fitness for every age.",
		Specialty:   domain.SpecialtyFitness,
		Price:       domain.Float(75),
		Rating:      domain.Float(4.8),
		ReviewCount: domain.Int(98),
		Verified:    true,
		Online:      true,
		Experience:  6,
		AvatarURL:   "https://randomuser.me/api/portraits/men/32.jpg",
		Location:    "Austin, TX",
	},
	{
		ID:          "coach-emily-rodriguez",
		Name:        "Dr. Emily Rodriguez",
		Bio:         "Licensed therapist specializing in stress, anxiety and burnout recovery.",
		Specialty:   domain.SpecialtyMental,
		Price:       domain.Float(120),
		Rating:      domain.Float(4.9),
		ReviewCount: domain.Int(203),
		Verified:    true,
		Online:      false,
		Experience:  12,
		AvatarURL:   "https://randomuser.me/api/portraits/women/68.jpg",
		Location:    "New York, NY",
	},
	{
		ID:          "coach-james-wilson",
		Name:        "James Wilson",
		Bio:         "Sleep coach using evidence-based routines to fix insomnia and jet lag.",
		Specialty:   domain.SpecialtySleep,
		Price:       domain.Float(90),
		Rating:      domain.Float(4.7),
		ReviewCount: domain.Int(64),
		Verified:    true,
		Online:      true,
		Experience:  5,
		AvatarURL:   "https://randomuser.me/api/portraits/men/75.jpg",
		Location:    "Seattle, WA",
	},
	{
		ID:          "coach-aisha-patel",
		Name:        "Aisha Patel",
		Bio:         "Holistic wellness coach blending mindfulness, movement and nutrition.",
		Specialty:   domain.SpecialtyWellness,
		Price:       domain.Float(70),
		Rating:      domain.Float(4.8),
		ReviewCount: domain.Int(156),
		Verified:    true,
		Online:      true,
		Experience:  9,
		AvatarURL:   "https://randomuser.me/api/portraits/women/26.jpg",
		Location:    "Denver, CO",
	},
}

// FallbackRecords returns a copy of the hand-authored records.
func FallbackRecords() []domain.CoachRecord {
	out := make([]domain.CoachRecord, len(fallbackRecords))
	for i := range fallbackRecords {
		out[i] = fallbackRecords[i].Clone()
	}
	return out
}

// FindFallback returns the hand-authored record with the given id, or nil.
func FindFallback(id string) *domain.CoachRecord {
	for i := range fallbackRecords {
		if fallbackRecords[i].ID == id {
			rec := fallbackRecords[i].Clone()
			return &rec
		}
	}
	return nil
}
