package repository

import (
	"context"
	"errors"

	"pulsepost/internal/models"

	"gorm.io/gorm"
)

// ScheduleRepository defines persistence operations for posting schedules.
type ScheduleRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Schedule, error)
	Upsert(ctx context.Context, schedule *models.Schedule) error
	// SetEnabled flips the automation switch and returns the updated row.
	SetEnabled(ctx context.Context, userID uint, enabled bool) (*models.Schedule, error)
	// ListEnabledUserIDs returns the IDs of every user whose schedule is
	// currently enabled. The runner fans out over this set.
	ListEnabledUserIDs(ctx context.Context) ([]uint, error)
}

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository returns a new ScheduleRepository implementation.
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) GetByUserID(ctx context.Context, userID uint) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&schedule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &schedule, nil
}

func (r *scheduleRepository) Upsert(ctx context.Context, schedule *models.Schedule) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Schedule
		err := tx.Where("user_id = ?", schedule.UserID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(schedule).Error
		}
		if err != nil {
			return err
		}

		schedule.ID = existing.ID
		schedule.CreatedAt = existing.CreatedAt
		return tx.Save(schedule).Error
	})

	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *scheduleRepository) SetEnabled(ctx context.Context, userID uint, enabled bool) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&schedule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Schedule", userID)
		}
		return nil, models.NewInternalError(err)
	}

	schedule.Enabled = enabled
	if err := r.db.WithContext(ctx).Save(&schedule).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &schedule, nil
}

func (r *scheduleRepository) ListEnabledUserIDs(ctx context.Context) ([]uint, error) {
	var userIDs []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("enabled = ?", true).
		Order("user_id").
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return userIDs, nil
}
