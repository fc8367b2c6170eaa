package repository

import (
	"context"
	"errors"

	"github.com/biruk-1/Health-coach-sub000/internal/domain"
)

var (
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// FavoriteRepository defines the interface for favorite persistence.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, coachID string) (*domain.Favorite, error)
	Remove(ctx context.Context, userID, coachID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error)
	Exists(ctx context.Context, userID, coachID string) (bool, error)
}
