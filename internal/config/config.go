package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AppConfig represents the main application configuration
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Export   ExportConfig   `mapstructure:"export"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ExportConfig represents export configuration
type ExportConfig struct {
	Path string `mapstructure:"path"`
}

// CatalogConfig holds catalog behaviour knobs
type CatalogConfig struct {
	RecommendLimit int `mapstructure:"recommend_limit"`
}

// MetricsConfig represents the optional prometheus listener
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// TracingConfig represents tracing configuration
type TracingConfig struct {
	Exporter    string `mapstructure:"exporter"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

// EnvPrefix is prepended to every environment override, e.g. MOVIECATALOG_DATABASE_HOST.
const EnvPrefix = "MOVIECATALOG"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ConfigLoader loads configuration using a private viper instance
type ConfigLoader struct {
	viper *viper.Viper
}

// NewConfigLoader creates a loader with defaults and search paths applied
func NewConfigLoader() *ConfigLoader {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &ConfigLoader{viper: v}
}

// SetConfigFile points the loader at an explicit configuration file
func (l *ConfigLoader) SetConfigFile(path string) {
	if path != "" {
		l.viper.SetConfigFile(path)
	}
}

// BindFlag lets a command line flag override key when the flag is set
func (l *ConfigLoader) BindFlag(key string, flag *pflag.Flag) error {
	return l.viper.BindPFlag(key, flag)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "MovieDB")
	v.SetDefault("database.admin_dbname", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", ".")
	v.SetDefault("database.max_open_conns", DefaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", DefaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", DefaultConnMaxLifetime)
	v.SetDefault("database.conn_max_idle_time", DefaultConnMaxIdleTime)
	v.SetDefault("database.connect_timeout", 10*time.Second)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")

	v.SetDefault("export.path", "movies_export.txt")

	v.SetDefault("catalog.recommend_limit", 5)

	v.SetDefault("metrics.addr", "")

	v.SetDefault("tracing.exporter", "none")
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.service_name", "moviecatalog")
}

// Load reads the configuration file (if any), applies environment overrides and validates
func (l *ConfigLoader) Load() (*AppConfig, error) {
	if err := l.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, using defaults
	}

	var config AppConfig
	if err := l.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

// validateConfig validates the configuration values
func validateConfig(config *AppConfig) error {
	db := config.Database
	switch db.Driver {
	case DriverPostgres:
		if db.Host == "" {
			return fmt.Errorf("database.host cannot be empty")
		}
		if db.Port < 1 || db.Port > 65535 {
			return fmt.Errorf("database.port must be between 1 and 65535")
		}
		if db.User == "" {
			return fmt.Errorf("database.user cannot be empty")
		}
		if db.AdminDBName == "" {
			return fmt.Errorf("database.admin_dbname cannot be empty")
		}
	case DriverSQLite:
		if db.Path == "" {
			return fmt.Errorf("database.path cannot be empty")
		}
	default:
		return fmt.Errorf("database.driver must be one of %q or %q, got %q", DriverPostgres, DriverSQLite, db.Driver)
	}

	// The name is interpolated into CREATE DATABASE, so only plain identifiers are allowed.
	if !identifierPattern.MatchString(db.DBName) {
		return fmt.Errorf("database.dbname must be a plain identifier, got %q", db.DBName)
	}

	if db.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}

	if config.Export.Path == "" {
		return fmt.Errorf("export.path cannot be empty")
	}

	if config.Catalog.RecommendLimit < 1 {
		return fmt.Errorf("catalog.recommend_limit must be at least 1")
	}

	switch config.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", config.Log.Format)
	}

	switch config.Tracing.Exporter {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be none, stdout or otlp, got %q", config.Tracing.Exporter)
	}

	return nil
}
