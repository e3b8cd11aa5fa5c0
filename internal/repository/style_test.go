package repository

import (
	"context"
	"testing"

	"pulsepost/internal/cache"
	"pulsepost/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleRepository_Upsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewStyleRepository(db)
	ctx := context.Background()

	got, err := repo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	style := &models.ContentStyle{UserID: 1, Topic: "golang", Tone: models.ToneProfessional, Length: models.LengthMedium}
	require.NoError(t, repo.Upsert(ctx, style))

	updated := &models.ContentStyle{UserID: 1, Topic: "distributed systems", Tone: models.ToneCasual, Length: models.LengthShort}
	require.NoError(t, repo.Upsert(ctx, updated))

	got, err = repo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "distributed systems", got.Topic)
	assert.Equal(t, models.ToneCasual, got.Tone)

	// Second save must update in place, not add a row.
	var count int64
	db.Model(&models.ContentStyle{}).Where("user_id = ?", 1).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestStyleRepository_CacheHitKeepsUserID(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	db := newTestDB(t)
	repo := NewStyleRepository(db)
	ctx := context.Background()

	style := &models.ContentStyle{UserID: 3, Topic: "golang", Tone: models.ToneProfessional, Length: models.LengthMedium}
	require.NoError(t, repo.Upsert(ctx, style))

	// First read populates the cache from the database.
	got, err := repo.GetByUserID(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.EqualValues(t, 3, got.UserID)
	require.True(t, mr.Exists(cache.StyleKey(3)))

	// Second read is served from the cache; UserID is not part of the cached
	// JSON form and must still come back populated.
	got, err = repo.GetByUserID(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.EqualValues(t, 3, got.UserID)
	assert.Equal(t, "golang", got.Topic)
}
