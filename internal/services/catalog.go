package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"gorm.io/gorm"

	"moviecatalog/internal/database"
	"moviecatalog/internal/logging"
	"moviecatalog/internal/metrics"
	"moviecatalog/internal/models"
	"moviecatalog/internal/report"
	"moviecatalog/internal/tracing"
	"moviecatalog/internal/validation"
)

// Operation names used for spans, metrics and log lines
const (
	OpAdd       = "add"
	OpView      = "view"
	OpSearch    = "search"
	OpDelete    = "delete"
	OpExport    = "export"
	OpRecommend = "recommend"
)

// DefaultRecommendLimit caps the recommendation list
const DefaultRecommendLimit = 5

// Store hands out one scoped connection per operation
type Store interface {
	WithConnection(ctx context.Context, fn func(tx *gorm.DB) error) error
	Driver() string
}

// Catalog implements the menu operations on top of a Store
type Catalog struct {
	store          Store
	exporter       *report.Exporter
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	logger         *logging.Logger
	recommendLimit int
}

// Option configures a Catalog
type Option func(*Catalog)

// WithMetrics records every operation on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Catalog) { c.metrics = m }
}

// WithTracer starts one span per operation on t
func WithTracer(t trace.Tracer) Option {
	return func(c *Catalog) { c.tracer = t }
}

// WithLogger sets the operation logger
func WithLogger(l *logging.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// WithRecommendLimit overrides DefaultRecommendLimit
func WithRecommendLimit(limit int) Option {
	return func(c *Catalog) {
		if limit > 0 {
			c.recommendLimit = limit
		}
	}
}

// NewCatalog creates a catalog service
func NewCatalog(store Store, exporter *report.Exporter, opts ...Option) *Catalog {
	c := &Catalog{
		store:          store,
		exporter:       exporter,
		tracer:         noop.NewTracerProvider().Tracer(tracing.ServiceName),
		logger:         logging.GetGlobalLogger(),
		recommendLimit: DefaultRecommendLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExportPath returns where ExportMovies writes
func (c *Catalog) ExportPath() string {
	return c.exporter.Path()
}

// AddMovie validates the raw input and inserts one row
func (c *Catalog) AddMovie(ctx context.Context, in MovieInput) (*models.Movie, error) {
	var movie *models.Movie
	err := c.observe(ctx, OpAdd, func(ctx context.Context) error {
		parsed, err := ParseMovieInput(in)
		if err != nil {
			return err
		}
		movie = parsed
		return c.withRepository(ctx, func(repo *Repository) error {
			return repo.CreateMovie(movie)
		})
	})
	if err != nil {
		return nil, err
	}
	return movie, nil
}

// ListMovies returns every movie in store order
func (c *Catalog) ListMovies(ctx context.Context) ([]models.Movie, error) {
	var movies []models.Movie
	err := c.observe(ctx, OpView, func(ctx context.Context) error {
		return c.withRepository(ctx, func(repo *Repository) error {
			var err error
			movies, err = repo.ListMovies()
			return err
		})
	})
	return movies, err
}

// SearchMovies returns movies whose title or director contains term
func (c *Catalog) SearchMovies(ctx context.Context, term string) ([]models.Movie, error) {
	var movies []models.Movie
	err := c.observe(ctx, OpSearch, func(ctx context.Context) error {
		return c.withRepository(ctx, func(repo *Repository) error {
			var err error
			movies, err = repo.SearchMovies(term)
			return err
		})
	})
	return movies, err
}

// DeleteMovie removes the movie whose id is idText. ErrMovieNotFound means no row
// had that id.
func (c *Catalog) DeleteMovie(ctx context.Context, idText string) error {
	return c.observe(ctx, OpDelete, func(ctx context.Context) error {
		id, err := ParseMovieID(idText)
		if err != nil {
			return err
		}
		return c.withRepository(ctx, func(repo *Repository) error {
			deleted, err := repo.DeleteMovie(id)
			if err != nil {
				return err
			}
			if !deleted {
				return ErrMovieNotFound
			}
			return nil
		})
	})
}

// ExportMovies writes the whole catalog through the exporter and returns the row
// count. An empty catalog exports nothing and leaves the destination untouched.
func (c *Catalog) ExportMovies(ctx context.Context) (int, error) {
	var count int
	err := c.observe(ctx, OpExport, func(ctx context.Context) error {
		var movies []models.Movie
		err := c.withRepository(ctx, func(repo *Repository) error {
			var err error
			movies, err = repo.ListMovies()
			return err
		})
		if err != nil {
			return err
		}

		count = len(movies)
		if count == 0 {
			return nil
		}

		sum, err := c.exporter.Export(movies)
		if err != nil {
			return err
		}
		if err := c.exporter.Verify(sum); err != nil {
			return err
		}
		if c.logger != nil {
			c.logger.WithContext(ctx).Debug().
				Str("path", c.exporter.Path()).
				Int("rows", count).
				Str("sha256", sum).
				Msg("Exported movies")
		}
		return nil
	})
	return count, err
}

// Recommend finds the genre of title and returns the best rated other movies in it.
// ErrMovieNotFound means no movie has that title.
func (c *Catalog) Recommend(ctx context.Context, title string) (*models.Recommendation, error) {
	var rec *models.Recommendation
	err := c.observe(ctx, OpRecommend, func(ctx context.Context) error {
		return c.withRepository(ctx, func(repo *Repository) error {
			genre, err := repo.GetGenreByTitle(title)
			if err != nil {
				return err
			}

			rec = &models.Recommendation{Title: title, Genre: genre}
			if genre == nil {
				return nil
			}

			rec.Matches, err = repo.GetMoviesByGenre(*genre, title, c.recommendLimit)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Catalog) withRepository(ctx context.Context, fn func(repo *Repository) error) error {
	return c.store.WithConnection(ctx, func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// observe wraps one operation in a span, a metrics sample and a log line
func (c *Catalog) observe(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	ctx, span := c.tracer.Start(ctx, "catalog."+operation,
		trace.WithAttributes(tracing.OperationAttrs(operation, c.store.Driver())...))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	outcome := Outcome(err)
	span.SetAttributes(tracing.OutcomeAttr(outcome))

	var logged error
	switch outcome {
	case metrics.OutcomeOK, metrics.OutcomeNotFound:
	default:
		logged = err
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	c.metrics.ObserveOperation(operation, outcome, duration)
	if c.logger != nil {
		c.logger.LogOperation(ctx, operation, duration, logged)
	}
	return err
}

// Outcome classifies an operation error into a metrics outcome label
func Outcome(err error) string {
	var invalid *validation.RequestValidationError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrMovieNotFound):
		return metrics.OutcomeNotFound
	case errors.As(err, &invalid):
		return metrics.OutcomeInvalid
	case database.IsUnavailable(err):
		return metrics.OutcomeUnavailable
	default:
		return metrics.OutcomeError
	}
}

// IsFatal reports whether err should end the session
func IsFatal(err error) bool {
	return database.IsUnavailable(err)
}
