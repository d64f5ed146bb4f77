package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"moviecatalog/internal/models"
)

// MigrationManager creates the catalog schema
type MigrationManager struct {
	db     *gorm.DB
	logger *zerolog.Logger
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger *zerolog.Logger) *MigrationManager {
	return &MigrationManager{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the movies table when it is absent. An existing table is left as is.
func (m *MigrationManager) Migrate(ctx context.Context) error {
	migrator := m.db.WithContext(ctx).Migrator()

	if migrator.HasTable(&models.Movie{}) {
		if m.logger != nil {
			m.logger.Debug().Msg("movies table already exists")
		}
		return nil
	}

	if err := migrator.CreateTable(&models.Movie{}); err != nil {
		return fmt.Errorf("failed to create movies table: %w", err)
	}

	if m.logger != nil {
		m.logger.Info().Msg("Created movies table")
	}
	return nil
}

// InitializeSchema creates the table and seeds sample movies into an empty catalog.
// It is safe to run on every start.
func InitializeSchema(ctx context.Context, db *gorm.DB, logger *zerolog.Logger) (int, error) {
	if err := NewMigrationManager(db, logger).Migrate(ctx); err != nil {
		return 0, err
	}

	seeded, err := SeedMovies(ctx, db, logger)
	if err != nil {
		return 0, fmt.Errorf("failed to seed movies: %w", err)
	}
	return seeded, nil
}
