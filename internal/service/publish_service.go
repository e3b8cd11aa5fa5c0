package service

import (
	"context"
	"errors"

	"pulsepost/internal/cache"
	"pulsepost/internal/generator"
	"pulsepost/internal/middleware"
	"pulsepost/internal/models"
	"pulsepost/internal/repository"
	"pulsepost/internal/twitter"
)

// PublishService runs the generate-then-publish pipeline and owns the post
// ledger and its stats.
type PublishService struct {
	accountRepo  repository.AccountRepository
	styleRepo    repository.StyleRepository
	scheduleRepo repository.ScheduleRepository
	postRepo     repository.PostRepository
	gen          generator.Generator
	client       twitter.Client
}

// NewPublishService wires the publish pipeline.
func NewPublishService(
	accountRepo repository.AccountRepository,
	styleRepo repository.StyleRepository,
	scheduleRepo repository.ScheduleRepository,
	postRepo repository.PostRepository,
	gen generator.Generator,
	client twitter.Client,
) *PublishService {
	return &PublishService{
		accountRepo:  accountRepo,
		styleRepo:    styleRepo,
		scheduleRepo: scheduleRepo,
		postRepo:     postRepo,
		gen:          gen,
		client:       client,
	}
}

// PublishForUser generates one tweet for the user and attempts to publish it.
//
// Outcomes follow the ledger contract: a generation failure (or a missing
// account/style) returns an error and records nothing; once text exists,
// any publish failure is recorded as a failed ledger entry and returned as a
// normal result. The caller can tell the two apart by whether a record came
// back.
func (s *PublishService) PublishForUser(ctx context.Context, userID uint) (*models.PostRecord, error) {
	account, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, models.NewNotLinkedError()
	}

	style, err := s.styleRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if style == nil {
		return nil, models.NewValidationError("No content configuration found")
	}

	text, err := s.gen.Generate(ctx, userID, style)
	if err != nil {
		middleware.PublishAttempts.WithLabelValues("generation_failed").Inc()
		if models.IsCode(err, models.CodeGenerationFailed) {
			return nil, err
		}
		return nil, models.NewGenerationFailedError(err)
	}

	tweetID, err := s.client.PostTweet(ctx, account.OAuthToken, account.OAuthTokenSecret, text)
	if err != nil {
		record := models.NewFailedRecord(userID, text, publishErrorMessage(err))
		if createErr := s.postRepo.Create(ctx, record); createErr != nil {
			return nil, createErr
		}
		middleware.PublishAttempts.WithLabelValues("failed").Inc()
		middleware.Logger.WarnContext(ctx, "publish failed",
			"user_id", userID,
			"error", err.Error(),
		)
		return record, nil
	}

	record := models.NewSuccessRecord(userID, text, tweetID)
	if err := s.postRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	middleware.PublishAttempts.WithLabelValues("success").Inc()
	middleware.Logger.InfoContext(ctx, "tweet published",
		"user_id", userID,
		"twitter_id", tweetID,
	)
	return record, nil
}

// publishErrorMessage extracts the message to persist in a failed record,
// preferring the AppError message which carries the upstream body.
func publishErrorMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// ListPosts returns the user's most recent ledger entries, newest first.
func (s *PublishService) ListPosts(ctx context.Context, userID uint, limit int) ([]models.PostRecord, error) {
	return s.postRepo.ListByUser(ctx, userID, limit)
}

// Stats aggregates the ledger for the user. ScheduledPosts reflects the
// automation switch: 1 when an enabled schedule exists, otherwise 0.
func (s *PublishService) Stats(ctx context.Context, userID uint) (*models.Stats, error) {
	var stats models.Stats

	err := cache.Aside(ctx, cache.StatsKey(userID), &stats, cache.StatsTTL, func() error {
		total, successful, failed, err := s.postRepo.CountByStatus(ctx, userID)
		if err != nil {
			return err
		}

		schedule, err := s.scheduleRepo.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}

		stats = models.Stats{
			TotalPosts:      total,
			SuccessfulPosts: successful,
			FailedPosts:     failed,
		}
		if schedule != nil && schedule.Enabled {
			stats.ScheduledPosts = 1
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &stats, nil
}
