package repository

import (
	"context"

	"pulsepost/internal/cache"
	"pulsepost/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for the post ledger. The
// ledger is append-only; records are never updated or deleted.
type PostRepository interface {
	Create(ctx context.Context, record *models.PostRecord) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.PostRecord, error)
	CountByStatus(ctx context.Context, userID uint) (total, successful, failed int64, err error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, record *models.PostRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateStats(ctx, record.UserID)
	return nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.PostRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var records []models.PostRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return records, nil
}

func (r *postRepository) CountByStatus(ctx context.Context, userID uint) (total, successful, failed int64, err error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row

	if err := r.db.WithContext(ctx).
		Model(&models.PostRecord{}).
		Select("status, count(*) as n").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return 0, 0, 0, models.NewInternalError(err)
	}

	for _, r := range rows {
		total += r.N
		switch r.Status {
		case models.PostStatusSuccess:
			successful = r.N
		case models.PostStatusFailed:
			failed = r.N
		}
	}
	return total, successful, failed, nil
}
