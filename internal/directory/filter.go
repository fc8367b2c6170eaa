package directory

import (
	"cmp"
	"slices"
	"strings"

	"github.com/biruk-1/Health-coach-sub000/internal/domain"
)

// matches reports whether rec passes every active filter of q.
// A minimum rating excludes records without a rating.
func matches(rec *domain.CoachRecord, q domain.SearchQuery, term string) bool {
	if q.FiltersSpecialty() && !strings.EqualFold(string(rec.Specialty), q.Specialty) {
		return false
	}
	if q.MinRating != nil && (rec.Rating == nil || *rec.Rating < *q.MinRating) {
		return false
	}
	if term != "" &&
		!strings.Contains(strings.ToLower(rec.Name), term) &&
		!strings.Contains(strings.ToLower(rec.Bio), term) &&
		!strings.Contains(string(rec.Specialty), term) {
		return false
	}
	return true
}

// selectPage filters, sorts by descending rating and paginates records.
// The returned page holds copies.
func selectPage(records []domain.CoachRecord, q domain.SearchQuery) domain.PageResult {
	q = q.Normalize()
	term := strings.ToLower(q.SearchTerm)

	hits := make([]*domain.CoachRecord, 0, len(records))
	for i := range records {
		if matches(&records[i], q, term) {
			hits = append(hits, &records[i])
		}
	}

	slices.SortStableFunc(hits, func(a, b *domain.CoachRecord) int {
		return cmp.Compare(b.SortRating(), a.SortRating())
	})

	w := domain.Paginate(len(hits), q.Page, q.PageSize)
	page := make([]domain.CoachRecord, 0, w.End-w.Start)
	for _, rec := range hits[w.Start:w.End] {
		page = append(page, rec.Clone())
	}

	return domain.PageResult{
		Coaches:    page,
		Total:      len(hits),
		Page:       w.Page,
		PageSize:   q.PageSize,
		TotalPages: w.TotalPages,
		Source:     domain.SourceCache,
	}
}
