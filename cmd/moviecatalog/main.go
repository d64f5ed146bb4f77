package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"moviecatalog/internal/cli"
	"moviecatalog/internal/config"
	"moviecatalog/internal/database"
	"moviecatalog/internal/health"
	"moviecatalog/internal/logging"
	"moviecatalog/internal/metrics"
	"moviecatalog/internal/report"
	"moviecatalog/internal/services"
	"moviecatalog/internal/tracing"
)

// Version of the application
var Version = "1.0.0"

const shutdownTimeout = 5 * time.Second

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var configFile string

	loader := config.NewConfigLoader()

	cmd := &cobra.Command{
		Use:           "moviecatalog",
		Short:         "Interactive movie catalog",
		Long:          `moviecatalog keeps a catalog of movies in a relational store and lets you add, list, search, delete, export and get recommendations from an interactive menu.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader.SetConfigFile(configFile)
			cfg, err := loader.Load()
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				return err
			}

			if err := run(cmd.Context(), cfg, in, out, errOut); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				return err
			}
			return nil
		},
	}

	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to a YAML config file")
	cmd.Flags().String("log-level", "", "log level (debug, info, warn, error)")
	if err := loader.BindFlag("log.level", cmd.Flags().Lookup("log-level")); err != nil {
		panic(err)
	}

	return cmd
}

// run wires the catalog and drives the menu until the user exits. Any returned
// error is fatal for the process.
func run(ctx context.Context, cfg *config.AppConfig, in io.Reader, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logging.InitGlobalLogger(logging.LogLevel(cfg.Log.Level), cfg.Log.Format, errOut)
	logger := logging.GetGlobalLogger().WithField("session_id", uuid.NewString())
	logging.SetGlobalLogger(logger)
	log := logger.WithModule("main")

	tracer, err := tracing.NewTracer(ctx, cfg.Tracing, errOut)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Failed to flush traces")
		}
	}()

	m := metrics.InitializeMetrics()

	manager, err := database.NewDatabaseManager(ctx, &cfg.Database, logger.WithModule("database"))
	if err != nil {
		log.Error().Err(err).Msg("Store unavailable at startup")
		return err
	}
	defer manager.Close()

	seeded, err := database.InitializeSchema(ctx, manager.GetGormDB(), logger.WithModule("database"))
	if err != nil {
		log.Error().Err(err).Msg("Schema initialization failed")
		return err
	}
	m.SeededMoviesTotal.Add(float64(seeded))

	checker := health.NewChecker(manager, m, logger.WithModule("health"))
	checker.Check(ctx)

	if cfg.Metrics.Addr != "" {
		app := health.NewOpsApp(checker, m)
		go func() {
			if err := app.Listen(cfg.Metrics.Addr); err != nil {
				log.Warn().Err(err).Str("addr", cfg.Metrics.Addr).Msg("Ops listener stopped")
			}
		}()
		defer func() {
			if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
				log.Warn().Err(err).Msg("Error during ops listener shutdown")
			}
		}()
	}

	catalog := services.NewCatalog(
		manager,
		report.NewExporter(afero.NewOsFs(), cfg.Export.Path),
		services.WithMetrics(m),
		services.WithTracer(tracer.Tracer()),
		services.WithLogger(logger),
		services.WithRecommendLimit(cfg.Catalog.RecommendLimit),
	)

	if err := cli.NewMenu(catalog, in, out).Run(ctx); err != nil {
		if errors.Is(err, database.ErrStoreUnavailable) {
			log.Error().Err(err).Msg("Store became unavailable, ending session")
		}
		return err
	}
	return nil
}
