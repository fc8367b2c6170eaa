package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/biruk-1/Health-coach-sub000/internal/domain"
	"github.com/biruk-1/Health-coach-sub000/pkg/log"
)

// GormFavoriteRepository implements FavoriteRepository using GORM.
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a new GORM-based favorite repository.
func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// Add stores a favorite. Adding an existing favorite returns it unchanged.
func (r *GormFavoriteRepository) Add(ctx context.Context, userID, coachID string) (*domain.Favorite, error) {
	l := log.Ctx(ctx)

	model := domain.FavoriteModel{UserID: userID, CoachID: coachID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error; err != nil {
		l.Error().Err(err).Str(log.FieldCoachID, coachID).Msg("failed to add favorite")
		return nil, err
	}

	var stored domain.FavoriteModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND coach_id = ?", userID, coachID).
		First(&stored).Error; err != nil {
		l.Error().Err(err).Str(log.FieldCoachID, coachID).Msg("failed to read back favorite")
		return nil, err
	}

	fav := stored.ToDomain()
	return &fav, nil
}

// Remove deletes a favorite.
func (r *GormFavoriteRepository) Remove(ctx context.Context, userID, coachID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND coach_id = ?", userID, coachID).
		Delete(&domain.FavoriteModel{})
	if result.Error != nil {
		log.Ctx(ctx).Error().Err(result.Error).Str(log.FieldCoachID, coachID).Msg("failed to remove favorite")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// ListByUser returns a user's favorites, newest first.
func (r *GormFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	var models []domain.FavoriteModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&models).Error; err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list favorites")
		return nil, err
	}

	favorites := make([]domain.Favorite, len(models))
	for i := range models {
		favorites[i] = models[i].ToDomain()
	}
	return favorites, nil
}

// Exists reports whether the favorite exists.
func (r *GormFavoriteRepository) Exists(ctx context.Context, userID, coachID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.FavoriteModel{}).
		Where("user_id = ? AND coach_id = ?", userID, coachID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
