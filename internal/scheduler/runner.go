// Package scheduler drives the periodic auto-posting pipeline.
package scheduler

import (
	"context"
	"sync"
	"time"

	"pulsepost/internal/middleware"
	"pulsepost/internal/models"
	"pulsepost/internal/observability"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Publisher is the slice of the publish service the runner needs.
type Publisher interface {
	PublishForUser(ctx context.Context, userID uint) (*models.PostRecord, error)
}

// Housekeeper purges expired temporary credentials between firings.
type Housekeeper interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// UserLister enumerates the users participating in a firing.
type UserLister interface {
	ListEnabledUserIDs(ctx context.Context) ([]uint, error)
}

// Runner fires on a cron spec and publishes one post per enabled user. Users
// are fully isolated from each other: one user's failure never affects
// another's attempt in the same firing.
type Runner struct {
	publisher      Publisher
	housekeeper    Housekeeper
	users          UserLister
	spec           string
	workers        int
	perUserTimeout time.Duration

	cron *cron.Cron
	mu   sync.Mutex // held while a firing is in flight
}

// NewRunner validates the cron spec and builds a runner. The spec uses the
// standard five-field format; workers bounds concurrent per-user pipelines.
func NewRunner(publisher Publisher, housekeeper Housekeeper, users UserLister, spec string, workers int, perUserTimeout time.Duration) (*Runner, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, models.NewValidationError("invalid cron spec: " + err.Error())
	}
	if workers < 1 {
		workers = 1
	}

	return &Runner{
		publisher:      publisher,
		housekeeper:    housekeeper,
		users:          users,
		spec:           spec,
		workers:        workers,
		perUserTimeout: perUserTimeout,
	}, nil
}

// Start schedules firings. It returns immediately; firings happen on the
// cron goroutine.
func (r *Runner) Start() error {
	r.cron = cron.New()
	if _, err := r.cron.AddFunc(r.spec, func() {
		r.TryRun(context.Background())
	}); err != nil {
		return err
	}
	r.cron.Start()

	middleware.Logger.Info("scheduler started", "spec", r.spec, "workers", r.workers)
	return nil
}

// Stop halts future firings and waits for an in-flight one to finish, up to
// ctx's deadline.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cron == nil {
		return nil
	}

	stopped := r.cron.Stop()
	select {
	case <-stopped.Done():
		middleware.Logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		middleware.Logger.Warn("scheduler stop timed out with a firing still in flight")
		return ctx.Err()
	}
}

// TryRun runs one firing unless another is already in flight, in which case
// it reports false and does nothing. A firing that outlives its interval must
// not stack a second one on top.
func (r *Runner) TryRun(ctx context.Context) bool {
	if !r.mu.TryLock() {
		middleware.RunnerFirings.WithLabelValues("skipped_overlap").Inc()
		middleware.Logger.Warn("scheduler firing skipped, previous firing still running")
		return false
	}
	defer r.mu.Unlock()

	r.runOnce(ctx)
	return true
}

// RunOnce executes a single firing, waiting if one is already in flight.
// Exposed for manual triggering and tests.
func (r *Runner) RunOnce(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runOnce(ctx)
}

func (r *Runner) runOnce(ctx context.Context) {
	start := time.Now()

	firing, ctx := observability.NewSpan(ctx, "scheduler.firing")
	defer firing.End()

	if n, err := r.housekeeper.PurgeExpired(ctx); err != nil {
		middleware.Logger.WarnContext(ctx, "expired credential purge failed", "error", err.Error())
	} else if n > 0 {
		middleware.Logger.InfoContext(ctx, "purged expired temporary credentials", "count", n)
	}

	userIDs, err := r.users.ListEnabledUserIDs(ctx)
	if err != nil {
		firing.SetError(err)
		middleware.Logger.ErrorContext(ctx, "scheduler could not list enabled users", "error", err.Error())
		return
	}
	firing.AddAttributes(attribute.Int("scheduler.users", len(userIDs)))

	var g errgroup.Group
	g.SetLimit(r.workers)

	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			uctx, cancel := context.WithTimeout(middleware.WithUserID(ctx, userID), r.perUserTimeout)
			defer cancel()

			span, uctx := observability.NewSpan(uctx, "scheduler.publish_user",
				trace.WithAttributes(attribute.Int64("user.id", int64(userID))))
			defer span.End()

			record, err := r.publisher.PublishForUser(uctx, userID)
			switch {
			case err != nil:
				// Generation failures and precondition misses leave no
				// record; log and move on to the next user.
				span.SetError(err)
				middleware.Logger.WarnContext(uctx, "scheduled publish produced no record",
					"user_id", userID,
					"code", models.ErrorCode(err),
					"error", err.Error(),
				)
			case record.Status == models.PostStatusFailed:
				middleware.Logger.WarnContext(uctx, "scheduled publish recorded a failure",
					"user_id", userID,
				)
			default:
				middleware.Logger.InfoContext(uctx, "scheduled publish succeeded",
					"user_id", userID,
				)
			}
			// Per-user isolation: never surface an error to the group.
			return nil
		})
	}
	_ = g.Wait()

	elapsed := time.Since(start)
	middleware.RunnerFirings.WithLabelValues("completed").Inc()
	middleware.RunnerFiringDuration.Observe(elapsed.Seconds())
	middleware.Logger.InfoContext(ctx, "scheduler firing completed",
		"users", len(userIDs),
		"elapsed", elapsed.String(),
	)
}
