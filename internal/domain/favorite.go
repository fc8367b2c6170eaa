package domain

import "time"

// FavoriteModel is the GORM model for the favorites table.
type FavoriteModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_favorites_user_coach"`
	CoachID   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_favorites_user_coach"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for FavoriteModel.
func (FavoriteModel) TableName() string {
	return "favorites"
}

// Favorite is a coach a user bookmarked.
type Favorite struct {
	UserID    string    `json:"user_id"`
	CoachID   string    `json:"coach_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDomain converts FavoriteModel to domain Favorite.
func (m *FavoriteModel) ToDomain() Favorite {
	return Favorite{
		UserID:    m.UserID,
		CoachID:   m.CoachID,
		CreatedAt: m.CreatedAt,
	}
}

// FavoriteCoach pairs a favorite with the resolved coach profile.
type FavoriteCoach struct {
	Favorite
	Coach *CoachRecord `json:"coach,omitempty"`
}
