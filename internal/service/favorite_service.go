package service

import (
	"context"
	"errors"
	"strings"

	"github.com/biruk-1/Health-coach-sub000/internal/domain"
	"github.com/biruk-1/Health-coach-sub000/internal/repository"
	"github.com/biruk-1/Health-coach-sub000/pkg/log"
)

var (
	ErrCoachNotFound     = errors.New("coach not found")
	ErrFavoriteNotFound  = errors.New("favorite not found")
	ErrTooManyFavorites  = errors.New("favorite limit reached")
	ErrInvalidFavoriteID = errors.New("coach id required")
)

// favoriteServiceImpl implements FavoriteService interface.
type favoriteServiceImpl struct {
	repo         repository.FavoriteRepository
	coaches      CoachLookup
	maxFavorites int
}

// NewFavoriteService creates a new favorite service. maxFavorites <= 0
// means unlimited.
func NewFavoriteService(repo repository.FavoriteRepository, coaches CoachLookup, maxFavorites int) FavoriteService {
	return &favoriteServiceImpl{
		repo:         repo,
		coaches:      coaches,
		maxFavorites: maxFavorites,
	}
}

// AddFavorite bookmarks a coach that exists in the directory.
func (s *favoriteServiceImpl) AddFavorite(ctx context.Context, userID, coachID string) (*domain.FavoriteCoach, error) {
	coachID = strings.TrimSpace(coachID)
	if coachID == "" {
		return nil, ErrInvalidFavoriteID
	}

	coach := s.coaches.GetByID(ctx, coachID)
	if coach == nil {
		return nil, ErrCoachNotFound
	}

	if s.maxFavorites > 0 {
		exists, err := s.repo.Exists(ctx, userID, coachID)
		if err != nil {
			return nil, err
		}
		if !exists {
			current, err := s.repo.ListByUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			if len(current) >= s.maxFavorites {
				return nil, ErrTooManyFavorites
			}
		}
	}

	fav, err := s.repo.Add(ctx, userID, coachID)
	if err != nil {
		return nil, err
	}

	return &domain.FavoriteCoach{Favorite: *fav, Coach: coach}, nil
}

// RemoveFavorite deletes a bookmark.
func (s *favoriteServiceImpl) RemoveFavorite(ctx context.Context, userID, coachID string) error {
	if err := s.repo.Remove(ctx, userID, coachID); err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return ErrFavoriteNotFound
		}
		return err
	}
	return nil
}

// ListFavorites returns a user's favorites with their coach profiles.
// Coaches no longer in the directory are listed without a profile.
func (s *favoriteServiceImpl) ListFavorites(ctx context.Context, userID string) ([]domain.FavoriteCoach, error) {
	favorites, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.FavoriteCoach, len(favorites))
	for i, fav := range favorites {
		out[i] = domain.FavoriteCoach{Favorite: fav, Coach: s.coaches.GetByID(ctx, fav.CoachID)}
		if out[i].Coach == nil {
			log.Ctx(ctx).Debug().Str(log.FieldCoachID, fav.CoachID).Msg("favorite coach missing from directory")
		}
	}
	return out, nil
}
