package tabular

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/biruk-1/Health-coach-sub000/internal/domain"
	"github.com/biruk-1/Health-coach-sub000/pkg/storage"
)

// ErrEmpty is returned when a file holds no usable rows.
var ErrEmpty = errors.New("tabular file has no usable rows")

// Source serves the records of one export file held in a storage backend.
// The file is re-parsed only when its size or modification time changes.
type Source struct {
	store storage.Storage
	key   string

	mu      sync.Mutex
	info    storage.FileInfo
	records []domain.CoachRecord
}

// NewSource creates a source for key in store.
func NewSource(store storage.Storage, key string) *Source {
	return &Source{store: store, key: key}
}

// Key returns the storage key of the file.
func (s *Source) Key() string {
	return s.key
}

// ListAll returns every record in the file.
func (s *Source) ListAll(ctx context.Context) ([]domain.CoachRecord, error) {
	info, err := s.store.Stat(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", s.key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.records == nil || !sameFile(s.info, info) {
		rc, err := s.store.Read(ctx, s.key)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", s.key, err)
		}
		records, err := Parse(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("%s: %w", s.key, ErrEmpty)
		}
		s.records = records
		s.info = info
	}

	out := make([]domain.CoachRecord, len(s.records))
	for i := range s.records {
		out[i] = s.records[i].Clone()
	}
	return out, nil
}

func sameFile(a, b storage.FileInfo) bool {
	return a.Size == b.Size && a.LastModified.Equal(b.LastModified) && !a.LastModified.Equal(time.Time{})
}
