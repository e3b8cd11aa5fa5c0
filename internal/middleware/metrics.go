package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsepost_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// PublishAttempts counts publish pipeline outcomes by status
	// (success, failed, skipped, generation_failed).
	PublishAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsepost_publish_attempts_total",
		Help: "Total publish pipeline outcomes by status",
	}, []string{"status"})

	// RunnerFirings counts scheduler firings by result (completed, skipped_overlap).
	RunnerFirings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsepost_runner_firings_total",
		Help: "Total scheduler firings by result",
	}, []string{"result"})

	// RunnerFiringDuration records how long one full firing takes.
	RunnerFiringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pulsepost_runner_firing_duration_seconds",
		Help:    "Duration of one scheduler firing in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-level Prometheus middleware handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
