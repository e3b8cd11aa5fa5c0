package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"pulsepost/internal/config"
	"pulsepost/internal/database"
	"pulsepost/internal/generator"
	"pulsepost/internal/models"
	"pulsepost/internal/repository"
	"pulsepost/internal/service"
	"pulsepost/internal/twitter"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:                   "0",
		Env:                    "test",
		JWTSecret:              "test-secret-key-for-handler-tests!!",
		PostCron:               "0 * * * *",
		RunnerWorkers:          1,
		TempCredTTLMinutes:     15,
		ExternalTimeoutSeconds: 5,
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

// fakeTwitterClient is a configurable in-memory stand-in for the Twitter API.
type fakeTwitterClient struct {
	postTweetErr error
	tweetCounter int
}

func (f *fakeTwitterClient) RequestToken(ctx context.Context) (string, string, error) {
	return "req-token", "req-secret", nil
}

func (f *fakeTwitterClient) AuthorizationURL(requestToken string) (string, error) {
	return "https://api.twitter.com/oauth/authorize?oauth_token=" + requestToken, nil
}

func (f *fakeTwitterClient) AccessToken(ctx context.Context, requestToken, requestSecret, verifier string) (string, string, error) {
	return "perm-token", "perm-secret", nil
}

func (f *fakeTwitterClient) VerifyCredentials(ctx context.Context, token, secret string) (*twitter.Profile, error) {
	return &twitter.Profile{ID: "tw-42", ScreenName: "tester", Name: "Test User"}, nil
}

func (f *fakeTwitterClient) PostTweet(ctx context.Context, token, secret, text string) (string, error) {
	if f.postTweetErr != nil {
		return "", f.postTweetErr
	}
	f.tweetCounter++
	return "tweet-1", nil
}

type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) Generate(ctx context.Context, userID uint, style *models.ContentStyle) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.text != "" {
		return f.text, nil
	}
	return "a generated tweet about " + style.Topic, nil
}

// testServer builds a Server wired to an in-memory database and fake
// adapters, without the Prometheus middleware so repeated construction in
// tests does not re-register collectors.
func testServer(t *testing.T, tw twitter.Client, gen generator.Generator) *Server {
	t.Helper()

	cfg := testConfig()
	db := newTestDB(t)

	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	styleRepo := repository.NewStyleRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	postRepo := repository.NewPostRepository(db)

	s := &Server{
		config:       cfg,
		db:           db,
		userRepo:     userRepo,
		accountRepo:  accountRepo,
		styleRepo:    styleRepo,
		scheduleRepo: scheduleRepo,
		postRepo:     postRepo,
	}
	s.linkService = service.NewLinkService(accountRepo, tw, time.Duration(cfg.TempCredTTLMinutes)*time.Minute)
	s.publishService = service.NewPublishService(accountRepo, styleRepo, scheduleRepo, postRepo, gen, tw)
	return s
}

// withUser injects the authenticated user into locals, standing in for the
// JWT middleware.
func withUser(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, dest))
}
