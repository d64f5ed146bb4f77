package health

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"moviecatalog/internal/metrics"
)

// Store probes above this latency report as degraded
const DegradedThreshold = 200 * time.Millisecond

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status string           `json:"status"`
	DB     DependencyStatus `json:"db"`
}

// DependencyStatus represents the status of a dependency
type DependencyStatus struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
}

// Store is the part of the connection provider the probe needs
type Store interface {
	WithConnection(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Checker probes the store and publishes the result to metrics and the log
type Checker struct {
	store   Store
	metrics *metrics.Metrics
	logger  *zerolog.Logger
}

// NewChecker creates a checker. metrics and logger may be nil.
func NewChecker(store Store, m *metrics.Metrics, logger *zerolog.Logger) *Checker {
	return &Checker{store: store, metrics: m, logger: logger}
}

// Check acquires and probes one scoped connection
func (c *Checker) Check(ctx context.Context) HealthResponse {
	db := c.checkDB(ctx)

	if c.metrics != nil {
		up := 0.0
		if db.Status != "down" {
			up = 1
		}
		c.metrics.HealthStatus.WithLabelValues("db").Set(up)
		c.metrics.StoreLatencySeconds.Set(float64(db.LatencyMs) / 1000)
	}

	if c.logger != nil {
		event := c.logger.Debug()
		if db.Status != "ok" {
			event = c.logger.Warn()
		}
		event.Str("status", db.Status).Int64("latency_ms", db.LatencyMs).Msg("Store health probe")
	}

	return HealthResponse{Status: db.Status, DB: db}
}

// checkDB checks database health
func (c *Checker) checkDB(ctx context.Context) DependencyStatus {
	start := time.Now()
	err := c.store.WithConnection(ctx, func(tx *gorm.DB) error { return nil })
	latency := time.Since(start)

	if err != nil {
		return DependencyStatus{Status: "down", LatencyMs: latency.Milliseconds()}
	}

	if latency > DegradedThreshold {
		return DependencyStatus{Status: "degraded", LatencyMs: latency.Milliseconds()}
	}

	return DependencyStatus{Status: "ok", LatencyMs: latency.Milliseconds()}
}

// RegisterHealthRoutes registers the health check route
func RegisterHealthRoutes(app *fiber.App, checker *Checker) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		resp := checker.Check(c.UserContext())

		if resp.Status == "down" {
			c.Status(fiber.StatusServiceUnavailable)
		} else {
			c.Status(fiber.StatusOK)
		}

		c.Set("Cache-Control", "no-store")
		return c.JSON(resp)
	})
}

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status,omitempty"`
	Code   int    `json:"code,omitempty"`
}

// errorHandler renders fiber errors, including unknown routes, as ErrorResponse
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:  err.Error(),
		Status: http.StatusText(code),
		Code:   code,
	})
}

// NewOpsApp builds the optional listener exposing /healthz and /metrics
func NewOpsApp(checker *Checker, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		// stdout belongs to the menu
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())

	RegisterHealthRoutes(app, checker)
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	return app
}
