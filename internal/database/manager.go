package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"moviecatalog/internal/config"
)

// DatabaseManager manages database connections
type DatabaseManager struct {
	config *config.DatabaseConfig
	gormDB *gorm.DB
	sqlDB  *sql.DB
	logger *zerolog.Logger
}

// GORMConfig is shared by every connection the catalog opens
var GORMConfig = &gorm.Config{
	Logger:                 logger.Default.LogMode(logger.Silent),
	SkipDefaultTransaction: true, // each catalog statement commits on its own
	QueryFields:            true,

	NamingStrategy: schema.NamingStrategy{
		SingularTable: false,
	},
}

// BuildDSN creates the driver specific DSN for the target database
func BuildDSN(cfg *config.DatabaseConfig) string {
	if cfg.Driver == config.DriverSQLite {
		return fmt.Sprintf("file:%s?_busy_timeout=5000", SQLitePath(cfg))
	}
	return buildPostgresDSN(cfg, cfg.DBName)
}

// SQLitePath returns the file backing the named database
func SQLitePath(cfg *config.DatabaseConfig) string {
	return filepath.Join(cfg.Path, cfg.DBName+".db")
}

func buildPostgresDSN(cfg *config.DatabaseConfig, dbName string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, dbName, cfg.SSLMode, int(cfg.ConnectTimeout.Seconds()))
}

func dialector(cfg *config.DatabaseConfig, dsn string) gorm.Dialector {
	if cfg.Driver == config.DriverSQLite {
		return sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: dsn})
	}
	return postgres.Open(dsn)
}

// EnsureDatabase creates the configured database when it does not exist yet
func EnsureDatabase(ctx context.Context, cfg *config.DatabaseConfig) error {
	if cfg.Driver == config.DriverSQLite {
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		return nil
	}

	admin, err := gorm.Open(postgres.Open(buildPostgresDSN(cfg, cfg.AdminDBName)), GORMConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to admin database: %w", err)
	}
	adminSQL, err := admin.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	defer adminSQL.Close()

	return createDatabaseIfAbsent(ctx, admin, cfg.DBName)
}

func createDatabaseIfAbsent(ctx context.Context, admin *gorm.DB, name string) error {
	var count int64
	if err := admin.WithContext(ctx).Raw("SELECT COUNT(*) FROM pg_database WHERE datname = ?", name).Scan(&count).Error; err != nil {
		return fmt.Errorf("failed to look up database %s: %w", name, err)
	}
	if count > 0 {
		return nil
	}

	// name is restricted to a plain identifier by config validation
	if err := admin.WithContext(ctx).Exec(`CREATE DATABASE "` + name + `"`).Error; err != nil {
		return fmt.Errorf("failed to create database %s: %w", name, err)
	}
	return nil
}

// NewDatabaseManager creates the target database if needed and connects to it
func NewDatabaseManager(ctx context.Context, cfg *config.DatabaseConfig, logger *zerolog.Logger) (*DatabaseManager, error) {
	c := cfg.WithDefaults()

	ctx, cancel := context.WithTimeout(ctx, c.ConnectTimeout)
	defer cancel()

	if err := EnsureDatabase(ctx, &c); err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector(&c, BuildDSN(&c)), GORMConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(c.ConnMaxIdleTime)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runHealthCheck(ctx, db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	if logger != nil {
		logger.Info().Str("driver", c.Driver).Str("dbname", c.DBName).Msg("Connected to database")
	}

	return &DatabaseManager{
		config: &c,
		gormDB: db,
		sqlDB:  sqlDB,
		logger: logger,
	}, nil
}

// runHealthCheck performs a basic query to verify database connectivity
func runHealthCheck(ctx context.Context, db *gorm.DB) error {
	var result int
	return db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error
}

// WithConnection runs fn on a dedicated connection that is released on every path.
// Failing to acquire or probe the connection yields an *UnavailableError; an error
// returned by fn is passed through untouched.
func (d *DatabaseManager) WithConnection(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var fnErr error
	var probeErr error

	err := d.gormDB.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		// NewDB keeps the dedicated ConnPool while every chained call starts from a clean statement.
		tx := conn.Session(&gorm.Session{NewDB: true})
		if probeErr = tx.Exec("SELECT 1").Error; probeErr != nil {
			return probeErr
		}
		fnErr = fn(tx)
		return fnErr
	})

	switch {
	case err == nil:
		return nil
	case fnErr != nil:
		return fnErr
	default:
		return &UnavailableError{Err: err}
	}
}

// GetGormDB returns the GORM database instance
func (d *DatabaseManager) GetGormDB() *gorm.DB {
	return d.gormDB
}

// GetSQLDB returns the underlying SQL database instance
func (d *DatabaseManager) GetSQLDB() *sql.DB {
	return d.sqlDB
}

// Driver reports the configured driver name
func (d *DatabaseManager) Driver() string {
	if d.config == nil {
		return ""
	}
	return d.config.Driver
}

// Close closes the database connection
func (d *DatabaseManager) Close() error {
	return d.sqlDB.Close()
}

// NewDatabaseManagerFromExisting creates a DatabaseManager from an open GORM instance
func NewDatabaseManagerFromExisting(gormDB *gorm.DB) (*DatabaseManager, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return &DatabaseManager{
		gormDB: gormDB,
		sqlDB:  sqlDB,
	}, nil
}
