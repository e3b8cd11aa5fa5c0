package repository

import (
	"context"
	"fmt"
	"testing"

	"pulsepost/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_CountByStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, models.NewSuccessRecord(1, fmt.Sprintf("tweet %d", i), fmt.Sprintf("tw-%d", i))))
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(ctx, models.NewFailedRecord(1, "tweet", "duplicate content")))
	}
	// Another user's records must not bleed into the counts.
	require.NoError(t, repo.Create(ctx, models.NewSuccessRecord(2, "other", "tw-x")))

	total, successful, failed, err := repo.CountByStatus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Equal(t, int64(3), successful)
	assert.Equal(t, int64(2), failed)
}

func TestPostRepository_ListByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, repo.Create(ctx, models.NewSuccessRecord(1, fmt.Sprintf("tweet %d", i), fmt.Sprintf("tw-%d", i))))
	}

	records, err := repo.ListByUser(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, records, 10) // default limit

	records, err = repo.ListByUser(ctx, 1, 5)
	require.NoError(t, err)
	assert.Len(t, records, 5)

	records, err = repo.ListByUser(ctx, 99, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPostRepository_FailedRecordFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	rec := models.NewFailedRecord(1, "some tweet", "Twitter API error: 403 duplicate")
	require.NoError(t, repo.Create(ctx, rec))

	records, err := repo.ListByUser(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, models.PostStatusFailed, got.Status)
	assert.Nil(t, got.TwitterID)
	assert.Nil(t, got.PostedAt)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "Twitter API error: 403 duplicate", *got.ErrorMessage)
}
