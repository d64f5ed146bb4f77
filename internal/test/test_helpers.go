package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"moviecatalog/internal/config"
	"moviecatalog/internal/database"
)

// GetTestDB opens an empty sqlite catalog in a per-test temp directory.
// The movies table is created but not seeded.
func GetTestDB(t *testing.T) *database.DatabaseManager {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "db"),
		DBName: "MovieDB",
	}

	manager, err := database.NewDatabaseManager(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	require.NoError(t, database.NewMigrationManager(manager.GetGormDB(), nil).Migrate(context.Background()))
	return manager
}

// SetupTestEnvironment returns a catalog holding the six seed movies
func SetupTestEnvironment(t *testing.T) *database.DatabaseManager {
	t.Helper()

	manager := GetTestDB(t)
	seeded, err := database.SeedMovies(context.Background(), manager.GetGormDB(), nil)
	require.NoError(t, err)
	require.Equal(t, 6, seeded)
	return manager
}

// GetMockDB wires a postgres-dialect gorm instance to sqlmock
func GetMockDB(t *testing.T) (*database.DatabaseManager, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), database.GORMConfig)
	require.NoError(t, err)

	manager, err := database.NewDatabaseManagerFromExisting(gormDB)
	require.NoError(t, err)
	return manager, mock
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
