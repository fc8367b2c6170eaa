package service

import (
	"context"

	"github.com/biruk-1/Health-coach-sub000/internal/domain"
)

// FavoriteService defines the interface for favorites business logic.
type FavoriteService interface {
	AddFavorite(ctx context.Context, userID, coachID string) (*domain.FavoriteCoach, error)
	RemoveFavorite(ctx context.Context, userID, coachID string) error
	ListFavorites(ctx context.Context, userID string) ([]domain.FavoriteCoach, error)
}

// CoachLookup resolves coach ids to profiles.
type CoachLookup interface {
	GetByID(ctx context.Context, id string) *domain.CoachRecord
}
