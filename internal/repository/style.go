package repository

import (
	"context"
	"errors"

	"pulsepost/internal/cache"
	"pulsepost/internal/models"

	"gorm.io/gorm"
)

// StyleRepository defines persistence operations for content styles.
type StyleRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.ContentStyle, error)
	Upsert(ctx context.Context, style *models.ContentStyle) error
}

type styleRepository struct {
	db *gorm.DB
}

// NewStyleRepository returns a new StyleRepository implementation.
func NewStyleRepository(db *gorm.DB) StyleRepository {
	return &styleRepository{db: db}
}

func (r *styleRepository) GetByUserID(ctx context.Context, userID uint) (*models.ContentStyle, error) {
	var style models.ContentStyle

	err := cache.Aside(ctx, cache.StyleKey(userID), &style, cache.StyleTTL, func() error {
		if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&style).Error; err != nil {
			return err
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	// UserID is excluded from the JSON form, so a cache hit comes back with it
	// zeroed; restore it from the lookup key.
	style.UserID = userID
	return &style, nil
}

// Upsert writes the user's single style row, creating it on first save and
// updating it in place afterwards.
func (r *styleRepository) Upsert(ctx context.Context, style *models.ContentStyle) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ContentStyle
		err := tx.Where("user_id = ?", style.UserID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(style).Error
		}
		if err != nil {
			return err
		}

		style.ID = existing.ID
		style.CreatedAt = existing.CreatedAt
		return tx.Save(style).Error
	})

	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateStyle(ctx, style.UserID)
	return nil
}
