package synthetic

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/biruk-1/Health-coach-sub000/internal/domain"
)

// DefaultSize matches the row count of the production coach export.
const DefaultSize = 5638

// idNamespace scopes the UUIDv5 ids of generated records.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("coach-directory/synthetic"))

var (
	firstNames = []string{
		"Olivia", "Liam", "Emma", "Noah", "Ava", "Elijah", "Sophia", "Lucas",
		"Mia", "Mateo", "Amara", "Kenji", "Priya", "Diego", "Fatima", "Tomas",
		"Hannah", "Omar", "Grace", "Ravi", "Chloe", "Andre", "Leila", "Samuel",
	}
	lastNames = []string{
		"Smith", "Garcia", "Nguyen", "Okafor", "Müller", "Kim", "Silva", "Brown",
		"Haddad", "Kowalski", "Tanaka", "Johnson", "Martinez", "Lee", "Patel",
		"Anderson", "Rossi", "Dubois", "Hughes", "Mensah",
	}
	titles = []string{"", "", "", "Dr. ", "Coach "}

	locations = []string{
		"New York, NY", "Los Angeles, CA", "Chicago, IL", "Houston, TX",
		"Phoenix, AZ", "Philadelphia, PA", "San Diego, CA", "Portland, OR",
		"Miami, FL", "Boston, MA", "Atlanta, GA", "Minneapolis, MN",
		"Nashville, TN", "Salt Lake City, UT", "Remote",
	}

	synthSpecialties = []domain.Specialty{
		domain.SpecialtyNutrition,
		domain.SpecialtyFitness,
		domain.SpecialtyMental,
		domain.SpecialtySleep,
		domain.SpecialtyWellness,
	}

	bios = map[domain.Specialty][]string{
		domain.SpecialtyNutrition: {
			"Certified nutritionist building meal plans around real life.",
			"Helps clients manage weight and blood sugar through whole foods.",
			"Sports nutrition coach for endurance athletes.",
		},
		domain.SpecialtyFitness: {
			"Personal trainer focused on strength, mobility and consistency.",
			"Coaches beginners through their first year of training.",
			"Former collegiate athlete specializing in HIIT and conditioning.",
		},
		domain.SpecialtyMental: {
			"Counselor helping clients work through anxiety and stress.",
			"Mindset coach for career transitions and burnout.",
			"Uses CBT techniques to build resilience and focus.",
		},
		domain.SpecialtySleep: {
			"Sleep specialist addressing insomnia and irregular schedules.",
			"Helps shift workers and new parents recover their rest.",
		},
		domain.SpecialtyWellness: {
			"Holistic coach combining breathwork, movement and habit design.",
			"Wellness coach for sustainable lifestyle change.",
			"Yoga and meditation teacher with a whole-person approach.",
		},
	}

	// priceMultiplier is added to the base hourly price per specialty.
	priceMultiplier = map[domain.Specialty]float64{
		domain.SpecialtyNutrition: 15,
		domain.SpecialtyFitness:   10,
		domain.SpecialtyMental:    45,
		domain.SpecialtySleep:     25,
		domain.SpecialtyWellness:  5,
	}
)

const (
	basePrice      = 40
	pricePerYear   = 2.5
	maxExperience  = 25
	verifiedChance = 0.90
	onlineChance   = 0.85
)

// Generator produces reproducible synthetic coach datasets.
type Generator struct {
	seed int64
}

// New creates a generator. The same seed always yields the same dataset.
func New(seed int64) *Generator {
	return &Generator{seed: seed}
}

// Seed returns the generator seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Generate returns count records. The hand-authored fallback records come
// first, unchanged; if count is smaller than that set, the set is still
// returned in full.
func (g *Generator) Generate(count int) []domain.CoachRecord {
	out := FallbackRecords()
	if count <= len(out) {
		return out
	}

	rng := rand.New(rand.NewPCG(uint64(g.seed), uint64(g.seed)^0x9e3779b97f4a7c15))
	for i := len(out); i < count; i++ {
		out = append(out, g.record(rng, i))
	}
	return out
}

func (g *Generator) record(rng *rand.Rand, index int) domain.CoachRecord {
	spec := synthSpecialties[rng.IntN(len(synthSpecialties))]
	first := firstNames[rng.IntN(len(firstNames))]
	last := lastNames[rng.IntN(len(lastNames))]
	title := titles[rng.IntN(len(titles))]
	years := 1 + rng.IntN(maxExperience)
	rating := biasedRating(rng)

	gender := "men"
	if rng.IntN(2) == 0 {
		gender = "women"
	}

	return domain.CoachRecord{
		ID:          g.recordID(index),
		Name:        title + first + " " + last,
		Bio:         bios[spec][rng.IntN(len(bios[spec]))],
		Specialty:   spec,
		Price:       domain.Float(math.Round(basePrice + priceMultiplier[spec] + float64(years)*pricePerYear)),
		Rating:      domain.Float(rating),
		ReviewCount: domain.Int(reviewCount(rng, rating)),
		Verified:    rng.Float64() < verifiedChance,
		Online:      rng.Float64() < onlineChance,
		Experience:  years,
		AvatarURL:   fmt.Sprintf("https://randomuser.me/api/portraits/%s/%d.jpg", gender, rng.IntN(100)),
		Location:    locations[rng.IntN(len(locations))],
	}
}

func (g *Generator) recordID(index int) string {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%d:%d", g.seed, index))).String()
}

// biasedRating clusters ratings between 4.0 and 5.0 with a thin tail down
// to 3.0, rounded to one decimal.
func biasedRating(rng *rand.Rand) float64 {
	var r float64
	if rng.Float64() < 0.1 {
		r = 3.0 + rng.Float64()
	} else {
		r = 4.0 + math.Sqrt(rng.Float64())
	}
	return math.Min(5, math.Round(r*10)/10)
}

// reviewCount grows with rating plus noise.
func reviewCount(rng *rand.Rand, rating float64) int {
	base := (rating - 3.0) * 80
	return int(base) + rng.IntN(60)
}
