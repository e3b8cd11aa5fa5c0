// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"pulsepost/internal/cache"
	"pulsepost/internal/config"
	"pulsepost/internal/database"
	"pulsepost/internal/generator"
	"pulsepost/internal/middleware"
	"pulsepost/internal/models"
	"pulsepost/internal/repository"
	"pulsepost/internal/scheduler"
	"pulsepost/internal/service"
	"pulsepost/internal/twitter"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "pulsepost-api"
	tokenAudience = "pulsepost-client"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo     repository.UserRepository
	accountRepo  repository.AccountRepository
	styleRepo    repository.StyleRepository
	scheduleRepo repository.ScheduleRepository
	postRepo     repository.PostRepository

	linkService    *service.LinkService
	publishService *service.PublishService
	runner         *scheduler.Runner
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	twitterClient := twitter.NewClient(
		cfg.TwitterConsumerKey,
		cfg.TwitterConsumerSecret,
		cfg.TwitterCallbackURL,
		twitter.WithTimeout(time.Duration(cfg.ExternalTimeoutSeconds)*time.Second),
	)

	var gen generator.Generator
	if cfg.GenAIKey != "" {
		gen, err = generator.NewGenAIGenerator(context.Background(), cfg.GenAIKey, cfg.GenAIModel)
		if err != nil {
			return nil, fmt.Errorf("generator init failed: %w", err)
		}
	} else {
		gen = unconfiguredGenerator{}
	}

	return NewServerWithDeps(cfg, db, redisClient, gen, twitterClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database and stub adapters.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, gen generator.Generator, twitterClient twitter.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	styleRepo := repository.NewStyleRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	postRepo := repository.NewPostRepository(db)

	prom := middleware.InitMetrics("pulsepost-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		accountRepo:    accountRepo,
		styleRepo:      styleRepo,
		scheduleRepo:   scheduleRepo,
		postRepo:       postRepo,
	}

	tempCredTTL := time.Duration(cfg.TempCredTTLMinutes) * time.Minute
	server.linkService = service.NewLinkService(accountRepo, twitterClient, tempCredTTL)
	server.publishService = service.NewPublishService(accountRepo, styleRepo, scheduleRepo, postRepo, gen, twitterClient)

	perUserTimeout := time.Duration(cfg.ExternalTimeoutSeconds) * time.Second
	runner, err := scheduler.NewRunner(
		server.publishService,
		server.linkService,
		scheduleRepo,
		cfg.PostCron,
		cfg.RunnerWorkers,
		perUserTimeout,
	)
	if err != nil {
		return nil, fmt.Errorf("scheduler init failed: %w", err)
	}
	server.runner = runner

	return server, nil
}

// unconfiguredGenerator stands in when no GenAI key is configured so the
// process can boot; every generation attempt fails cleanly.
type unconfiguredGenerator struct{}

func (unconfiguredGenerator) Generate(ctx context.Context, userID uint, style *models.ContentStyle) (string, error) {
	return "", models.NewMisconfiguredCredentialsError("GenAI")
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// OpenTelemetry span per request
	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS before middlewares that can short-circuit, so browser clients
	// still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "PulsePost Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	protected.Get("/auth/me", s.Me)

	// Twitter account linking
	tw := protected.Group("/twitter")
	tw.Get("/auth-url", s.GetTwitterAuthURL)
	tw.Post("/callback", s.TwitterCallback)
	tw.Get("/account", s.GetTwitterAccount)
	tw.Delete("/disconnect", s.DisconnectTwitter)

	// Content style and schedule
	protected.Post("/content-style", s.UpsertContentStyle)
	protected.Get("/content-style", s.GetContentStyle)
	protected.Post("/schedule", s.UpsertSchedule)
	protected.Get("/schedule", s.GetSchedule)
	protected.Patch("/schedule/toggle", s.ToggleSchedule)

	// Posts and stats
	protected.Post("/posts/generate", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "generate_post"), s.GeneratePost)
	protected.Get("/posts", s.GetPosts)
	protected.Get("/stats", s.GetStats)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is optional; caching degrades to direct reads without it.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		// Parse and validate token
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		// Validate issuer and audience
		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		// Extract user ID from subject claim
		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}

		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		// Store user ID in context
		c.Locals("userID", uint(userID))
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// Start starts the server and the schedule runner
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "PulsePost API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	if err := s.runner.Start(); err != nil {
		return fmt.Errorf("scheduler start failed: %w", err)
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server and the runner
func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the runner first so no firing starts mid-shutdown.
	if s.runner != nil {
		if err := s.runner.Stop(ctx); err != nil {
			log.Printf("error stopping scheduler: %v", err)
		}
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
