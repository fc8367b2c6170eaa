package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/biruk-1/Health-coach-sub000/internal/domain"
)

// Write encodes records as a coach export with a header row.
func Write(w io.Writer, records []domain.CoachRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, numColumns)
	for i := range records {
		rec := &records[i]
		row[colLocation] = rec.Location
		row[colMapsURL] = ""
		row[colName] = rec.Name
		row[colAddress] = rec.Address
		row[colPhone] = rec.Phone
		row[colWebsite] = rec.Website
		row[colRating] = ""
		if rec.Rating != nil {
			row[colRating] = strconv.FormatFloat(*rec.Rating, 'f', -1, 64)
		}
		row[colReviews] = ""
		if rec.ReviewCount != nil {
			row[colReviews] = strconv.Itoa(*rec.ReviewCount)
		}
		row[colAvatarURL] = rec.AvatarURL

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
