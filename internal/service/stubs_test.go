package service

import (
	"context"
	"time"

	"pulsepost/internal/models"
	"pulsepost/internal/twitter"
)

// Function-field stubs keep each test's behavior next to the assertion.

type stubAccountRepo struct {
	getByUserID     func(ctx context.Context, userID uint) (*models.LinkedAccount, error)
	replace         func(ctx context.Context, account *models.LinkedAccount, requestToken string) error
	delete          func(ctx context.Context, userID uint) error
	createTempCred  func(ctx context.Context, cred *models.TemporaryCredential) error
	getTempCred     func(ctx context.Context, requestToken string) (*models.TemporaryCredential, error)
	deleteExpired   func(ctx context.Context, before time.Time) (int64, error)
}

func (s *stubAccountRepo) GetByUserID(ctx context.Context, userID uint) (*models.LinkedAccount, error) {
	return s.getByUserID(ctx, userID)
}

func (s *stubAccountRepo) Replace(ctx context.Context, account *models.LinkedAccount, requestToken string) error {
	return s.replace(ctx, account, requestToken)
}

func (s *stubAccountRepo) Delete(ctx context.Context, userID uint) error {
	return s.delete(ctx, userID)
}

func (s *stubAccountRepo) CreateTempCredential(ctx context.Context, cred *models.TemporaryCredential) error {
	return s.createTempCred(ctx, cred)
}

func (s *stubAccountRepo) GetTempCredential(ctx context.Context, requestToken string) (*models.TemporaryCredential, error) {
	return s.getTempCred(ctx, requestToken)
}

func (s *stubAccountRepo) DeleteExpiredTempCredentials(ctx context.Context, before time.Time) (int64, error) {
	return s.deleteExpired(ctx, before)
}

type stubStyleRepo struct {
	getByUserID func(ctx context.Context, userID uint) (*models.ContentStyle, error)
	upsert      func(ctx context.Context, style *models.ContentStyle) error
}

func (s *stubStyleRepo) GetByUserID(ctx context.Context, userID uint) (*models.ContentStyle, error) {
	return s.getByUserID(ctx, userID)
}

func (s *stubStyleRepo) Upsert(ctx context.Context, style *models.ContentStyle) error {
	return s.upsert(ctx, style)
}

type stubScheduleRepo struct {
	getByUserID        func(ctx context.Context, userID uint) (*models.Schedule, error)
	upsert             func(ctx context.Context, schedule *models.Schedule) error
	setEnabled         func(ctx context.Context, userID uint, enabled bool) (*models.Schedule, error)
	listEnabledUserIDs func(ctx context.Context) ([]uint, error)
}

func (s *stubScheduleRepo) GetByUserID(ctx context.Context, userID uint) (*models.Schedule, error) {
	return s.getByUserID(ctx, userID)
}

func (s *stubScheduleRepo) Upsert(ctx context.Context, schedule *models.Schedule) error {
	return s.upsert(ctx, schedule)
}

func (s *stubScheduleRepo) SetEnabled(ctx context.Context, userID uint, enabled bool) (*models.Schedule, error) {
	return s.setEnabled(ctx, userID, enabled)
}

func (s *stubScheduleRepo) ListEnabledUserIDs(ctx context.Context) ([]uint, error) {
	return s.listEnabledUserIDs(ctx)
}

type stubPostRepo struct {
	create        func(ctx context.Context, record *models.PostRecord) error
	listByUser    func(ctx context.Context, userID uint, limit int) ([]models.PostRecord, error)
	countByStatus func(ctx context.Context, userID uint) (int64, int64, int64, error)
}

func (s *stubPostRepo) Create(ctx context.Context, record *models.PostRecord) error {
	return s.create(ctx, record)
}

func (s *stubPostRepo) ListByUser(ctx context.Context, userID uint, limit int) ([]models.PostRecord, error) {
	return s.listByUser(ctx, userID, limit)
}

func (s *stubPostRepo) CountByStatus(ctx context.Context, userID uint) (int64, int64, int64, error) {
	return s.countByStatus(ctx, userID)
}

type stubTwitterClient struct {
	requestToken      func(ctx context.Context) (string, string, error)
	authorizationURL  func(requestToken string) (string, error)
	accessToken       func(ctx context.Context, requestToken, requestSecret, verifier string) (string, string, error)
	verifyCredentials func(ctx context.Context, token, secret string) (*twitter.Profile, error)
	postTweet         func(ctx context.Context, token, secret, text string) (string, error)
}

func (s *stubTwitterClient) RequestToken(ctx context.Context) (string, string, error) {
	return s.requestToken(ctx)
}

func (s *stubTwitterClient) AuthorizationURL(requestToken string) (string, error) {
	return s.authorizationURL(requestToken)
}

func (s *stubTwitterClient) AccessToken(ctx context.Context, requestToken, requestSecret, verifier string) (string, string, error) {
	return s.accessToken(ctx, requestToken, requestSecret, verifier)
}

func (s *stubTwitterClient) VerifyCredentials(ctx context.Context, token, secret string) (*twitter.Profile, error) {
	return s.verifyCredentials(ctx, token, secret)
}

func (s *stubTwitterClient) PostTweet(ctx context.Context, token, secret, text string) (string, error) {
	return s.postTweet(ctx, token, secret, text)
}

type stubGenerator struct {
	generate func(ctx context.Context, userID uint, style *models.ContentStyle) (string, error)
}

func (s *stubGenerator) Generate(ctx context.Context, userID uint, style *models.ContentStyle) (string, error) {
	return s.generate(ctx, userID, style)
}
