// Package service holds the application's business logic, between the HTTP
// handlers and the repositories.
package service

import (
	"context"
	"time"

	"pulsepost/internal/middleware"
	"pulsepost/internal/models"
	"pulsepost/internal/repository"
	"pulsepost/internal/twitter"
)

// LinkService runs the account-linking state machine: unlinked, pending
// (temporary credential issued), linked.
type LinkService struct {
	accountRepo repository.AccountRepository
	client      twitter.Client
	tempCredTTL time.Duration
	now         func() time.Time
}

// NewLinkService returns a LinkService. tempCredTTL bounds how long an issued
// request token stays redeemable.
func NewLinkService(accountRepo repository.AccountRepository, client twitter.Client, tempCredTTL time.Duration) *LinkService {
	return &LinkService{
		accountRepo: accountRepo,
		client:      client,
		tempCredTTL: tempCredTTL,
		now:         time.Now,
	}
}

// Initiate obtains a request token, stores it as a pending credential for the
// user, and returns the authorization URL to redirect them to. A user may
// initiate multiple times; each call issues a fresh credential and earlier
// ones simply expire.
func (s *LinkService) Initiate(ctx context.Context, userID uint) (string, error) {
	token, secret, err := s.client.RequestToken(ctx)
	if err != nil {
		return "", err
	}

	cred := &models.TemporaryCredential{
		RequestToken:  token,
		RequestSecret: secret,
		UserID:        userID,
	}
	if err := s.accountRepo.CreateTempCredential(ctx, cred); err != nil {
		return "", err
	}

	return s.client.AuthorizationURL(token)
}

// CompleteLinkInput carries the callback parameters from the authorization
// redirect.
type CompleteLinkInput struct {
	OAuthToken    string `json:"oauth_token"`
	OAuthVerifier string `json:"oauth_verifier"`
}

// Complete finishes the handshake: it exchanges the authorized request token
// for permanent credentials, verifies them to snapshot the profile, and
// installs the linked account. The temporary credential is consumed exactly
// once; an expired or unknown token fails with the same error either way.
func (s *LinkService) Complete(ctx context.Context, in CompleteLinkInput) (*models.LinkedAccount, error) {
	if in.OAuthToken == "" || in.OAuthVerifier == "" {
		return nil, models.NewValidationError("oauth_token and oauth_verifier are required")
	}

	cred, err := s.accountRepo.GetTempCredential(ctx, in.OAuthToken)
	if err != nil {
		return nil, err
	}

	if s.now().Sub(cred.CreatedAt) > s.tempCredTTL {
		return nil, models.NewUnknownTokenError()
	}

	token, secret, err := s.client.AccessToken(ctx, cred.RequestToken, cred.RequestSecret, in.OAuthVerifier)
	if err != nil {
		return nil, err
	}

	profile, err := s.client.VerifyCredentials(ctx, token, secret)
	if err != nil {
		return nil, err
	}

	account := &models.LinkedAccount{
		UserID:           cred.UserID,
		TwitterID:        profile.ID,
		ScreenName:       profile.ScreenName,
		Name:             profile.Name,
		ProfileImageURL:  profile.ProfileImageURL,
		OAuthToken:       token,
		OAuthTokenSecret: secret,
	}
	if err := s.accountRepo.Replace(ctx, account, cred.RequestToken); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "twitter account linked",
		"user_id", cred.UserID,
		"screen_name", profile.ScreenName,
	)
	return account, nil
}

// Account returns the user's linked account, or a not-linked error.
func (s *LinkService) Account(ctx context.Context, userID uint) (*models.LinkedAccount, error) {
	account, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, models.NewNotLinkedError()
	}
	return account, nil
}

// Disconnect removes the user's linked account. Stored permanent credentials
// are deleted; revocation upstream is the user's affair.
func (s *LinkService) Disconnect(ctx context.Context, userID uint) error {
	return s.accountRepo.Delete(ctx, userID)
}

// PurgeExpired removes temporary credentials past their TTL. The runner calls
// this on every firing as housekeeping.
func (s *LinkService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.accountRepo.DeleteExpiredTempCredentials(ctx, s.now().Add(-s.tempCredTTL))
}
