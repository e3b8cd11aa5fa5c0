package repository

import (
	"context"
	"errors"
	"time"

	"pulsepost/internal/models"

	"gorm.io/gorm"
)

// AccountRepository defines persistence operations for linked Twitter accounts
// and the temporary credentials used during the OAuth handshake.
type AccountRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.LinkedAccount, error)
	// Replace atomically consumes the temporary credential identified by
	// requestToken and installs account as the user's linked account,
	// removing any previous link. Returns an unknown-token error when the
	// credential has already been consumed.
	Replace(ctx context.Context, account *models.LinkedAccount, requestToken string) error
	Delete(ctx context.Context, userID uint) error

	CreateTempCredential(ctx context.Context, cred *models.TemporaryCredential) error
	GetTempCredential(ctx context.Context, requestToken string) (*models.TemporaryCredential, error)
	DeleteExpiredTempCredentials(ctx context.Context, before time.Time) (int64, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository returns a new AccountRepository implementation.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetByUserID(ctx context.Context, userID uint) (*models.LinkedAccount, error) {
	var account models.LinkedAccount
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &account, nil
}

func (r *accountRepository) Replace(ctx context.Context, account *models.LinkedAccount, requestToken string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Consume the temporary credential first. RowsAffected == 0 means a
		// concurrent completion already used it; the whole exchange loses.
		res := tx.Where("request_token = ?", requestToken).Delete(&models.TemporaryCredential{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewUnknownTokenError()
		}

		// Relinking replaces the previous account rather than erroring.
		if err := tx.Where("user_id = ?", account.UserID).Delete(&models.LinkedAccount{}).Error; err != nil {
			return err
		}

		return tx.Create(account).Error
	})

	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, userID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.LinkedAccount{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotLinkedError()
	}
	return nil
}

func (r *accountRepository) CreateTempCredential(ctx context.Context, cred *models.TemporaryCredential) error {
	if err := r.db.WithContext(ctx).Create(cred).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *accountRepository) GetTempCredential(ctx context.Context, requestToken string) (*models.TemporaryCredential, error) {
	var cred models.TemporaryCredential
	if err := r.db.WithContext(ctx).Where("request_token = ?", requestToken).First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewUnknownTokenError()
		}
		return nil, models.NewInternalError(err)
	}
	return &cred, nil
}

func (r *accountRepository) DeleteExpiredTempCredentials(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", before).Delete(&models.TemporaryCredential{})
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}
