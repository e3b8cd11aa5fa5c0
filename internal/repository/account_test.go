package repository

import (
	"context"
	"testing"
	"time"

	"pulsepost/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_ReplaceConsumesCredential(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	cred := &models.TemporaryCredential{RequestToken: "req-1", RequestSecret: "sec-1", UserID: 1}
	require.NoError(t, repo.CreateTempCredential(ctx, cred))

	account := &models.LinkedAccount{
		UserID:           1,
		TwitterID:        "tw-100",
		ScreenName:       "alice",
		OAuthToken:       "tok",
		OAuthTokenSecret: "toksec",
	}
	require.NoError(t, repo.Replace(ctx, account, "req-1"))

	// The credential is single-use; a second completion with the same token
	// must fail even though the first one succeeded.
	again := &models.LinkedAccount{UserID: 1, TwitterID: "tw-100", OAuthToken: "tok2", OAuthTokenSecret: "sec2"}
	err := repo.Replace(ctx, again, "req-1")
	assert.True(t, models.IsCode(err, models.CodeUnknownToken))

	// And the first link must still be intact.
	got, err := repo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "tok", got.OAuthToken)
}

func TestAccountRepository_ReplaceRelinksAccount(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateTempCredential(ctx, &models.TemporaryCredential{RequestToken: "req-1", RequestSecret: "s", UserID: 7}))
	first := &models.LinkedAccount{UserID: 7, TwitterID: "old-id", ScreenName: "old", OAuthToken: "t1", OAuthTokenSecret: "s1"}
	require.NoError(t, repo.Replace(ctx, first, "req-1"))

	require.NoError(t, repo.CreateTempCredential(ctx, &models.TemporaryCredential{RequestToken: "req-2", RequestSecret: "s", UserID: 7}))
	second := &models.LinkedAccount{UserID: 7, TwitterID: "new-id", ScreenName: "new", OAuthToken: "t2", OAuthTokenSecret: "s2"}
	require.NoError(t, repo.Replace(ctx, second, "req-2"))

	got, err := repo.GetByUserID(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new-id", got.TwitterID)

	var count int64
	db.Model(&models.LinkedAccount{}).Where("user_id = ?", 7).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAccountRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	err := repo.Delete(ctx, 42)
	assert.True(t, models.IsCode(err, models.CodeNotLinked))

	require.NoError(t, repo.CreateTempCredential(ctx, &models.TemporaryCredential{RequestToken: "req-1", RequestSecret: "s", UserID: 42}))
	require.NoError(t, repo.Replace(ctx, &models.LinkedAccount{UserID: 42, TwitterID: "x", OAuthToken: "t", OAuthTokenSecret: "s"}, "req-1"))

	require.NoError(t, repo.Delete(ctx, 42))

	got, err := repo.GetByUserID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAccountRepository_GetTempCredentialMiss(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)

	_, err := repo.GetTempCredential(context.Background(), "never-issued")
	assert.True(t, models.IsCode(err, models.CodeUnknownToken))
}

func TestAccountRepository_DeleteExpiredTempCredentials(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	stale := &models.TemporaryCredential{RequestToken: "stale", RequestSecret: "s", UserID: 1, CreatedAt: time.Now().Add(-time.Hour)}
	fresh := &models.TemporaryCredential{RequestToken: "fresh", RequestSecret: "s", UserID: 2, CreatedAt: time.Now()}
	require.NoError(t, db.Create(stale).Error)
	require.NoError(t, db.Create(fresh).Error)

	n, err := repo.DeleteExpiredTempCredentials(ctx, time.Now().Add(-15*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetTempCredential(ctx, "fresh")
	assert.NoError(t, err)
}
