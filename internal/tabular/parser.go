package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/biruk-1/Health-coach-sub000/internal/domain"
)

// Column order of a coach export file.
const (
	colLocation = iota
	colMapsURL
	colName
	colAddress
	colPhone
	colWebsite
	colRating
	colReviews
	colAvatarURL

	numColumns
)

// Header is the canonical header row.
var Header = []string{"location", "googleMapsUrl", "name", "address", "phone", "website", "rating", "reviews", "avatarUrl"}

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("coach-directory/tabular"))

// specialtyKeywords is checked in order against the lowercased coach name.
var specialtyKeywords = []struct {
	specialty domain.Specialty
	keywords  []string
}{
	{domain.SpecialtyNutrition, []string{"nutrition", "nutritionist", "dietitian", "dietician", "diet"}},
	{domain.SpecialtyFitness, []string{"fitness", "trainer", "training", "gym", "crossfit", "pilates", "strength"}},
	{domain.SpecialtyMental, []string{"mental", "therapy", "therapist", "counsel", "psych", "mind"}},
	{domain.SpecialtySleep, []string{"sleep", "insomnia"}},
	{domain.SpecialtyWellness, []string{"wellness", "holistic", "yoga", "meditation", "spa"}},
}

// Parse reads a coach export. An optional header row is recognised and
// skipped. Rows without a name, with the wrong number of columns or with
// unusable numbers are dropped; only I/O errors are returned.
func Parse(r io.Reader) ([]domain.CoachRecord, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		out  []domain.CoachRecord
		seen = make(map[string]struct{})
		row  int
	)
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("failed to read tabular data: %w", err)
		}
		row++

		if row == 1 && isHeader(fields) {
			continue
		}
		rec, ok := parseRow(fields)
		if !ok {
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}

	return out, nil
}

func isHeader(fields []string) bool {
	return len(fields) > colName && strings.EqualFold(strings.TrimSpace(fields[colName]), "name")
}

func parseRow(fields []string) (domain.CoachRecord, bool) {
	if len(fields) != numColumns {
		return domain.CoachRecord{}, false
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	name := fields[colName]
	if name == "" {
		return domain.CoachRecord{}, false
	}

	rec := domain.CoachRecord{
		ID:        RecordID(name, fields[colAddress], fields[colPhone]),
		Name:      name,
		Specialty: InferSpecialty(name),
		Location:  fields[colLocation],
		Address:   fields[colAddress],
		Phone:     fields[colPhone],
		Website:   fields[colWebsite],
		AvatarURL: fields[colAvatarURL],
	}

	if v := fields[colRating]; v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.CoachRecord{}, false
		}
		rec.Rating = &rating
	}
	if v := strings.ReplaceAll(fields[colReviews], ",", ""); v != "" {
		reviews, err := strconv.Atoi(v)
		if err != nil {
			return domain.CoachRecord{}, false
		}
		rec.ReviewCount = &reviews
	}

	if rec.Validate() != nil {
		return domain.CoachRecord{}, false
	}
	return rec, true
}

// InferSpecialty guesses a specialty from keywords in a coach name.
func InferSpecialty(name string) domain.Specialty {
	lower := strings.ToLower(name)
	for _, group := range specialtyKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.specialty
			}
		}
	}
	return domain.SpecialtyHealth
}

// RecordID derives a stable id from the identifying columns of a row.
func RecordID(name, address, phone string) string {
	key := strings.ToLower(name) + "|" + strings.ToLower(address) + "|" + phone
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}
