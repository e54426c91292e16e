package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phee/operations/api/internal/config"
	"github.com/phee/operations/api/internal/middleware"
	"github.com/phee/operations/api/internal/pkg/database"
	"github.com/phee/operations/api/internal/pkg/logger"
	chrepo "github.com/phee/operations/api/internal/repository/clickhouse"
	pgrepo "github.com/phee/operations/api/internal/repository/postgres"
)

const appVersion = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string
	var cfg *config.Config

	cmd := &cobra.Command{
		Use:          "operations-api",
		Short:        "Read-only query API over payment transactions and their audit trail",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}

			loaded, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := logger.Init(logger.Config{Level: loaded.Log.Level, Format: loaded.Log.Format}); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a config file")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfg)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the bootstrap schema to the configured stores",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), cfg)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), appVersion)
		},
	})

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log := logger.Log
	defer func() { _ = logger.Sync() }()

	sentryEnabled := cfg.Sentry.Enabled && cfg.Sentry.DSN != ""
	if sentryEnabled {
		sentryCfg := cfg.Sentry
		if sentryCfg.Release == "" {
			sentryCfg.Release = "phee-operations@" + appVersion
		}
		if sentryCfg.Environment == "" {
			sentryCfg.Environment = cfg.Server.Env
		}

		if err := middleware.InitSentry(sentryCfg); err != nil {
			log.Error("failed to initialize Sentry", zap.Error(err))
			sentryEnabled = false
		} else {
			log.Info("Sentry initialized",
				zap.String("environment", sentryCfg.Environment),
				zap.String("release", sentryCfg.Release),
			)
			defer middleware.FlushSentry(5 * time.Second)
		}
	}

	deps, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	app := newApp(cfg, log, deps.Handlers, deps.RateLimiter, sentryEnabled)

	errCh := make(chan error, 1)
	go func() {
		addr := cfg.Server.ListenAddr()
		log.Info("starting server", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}

	log.Info("server stopped")
	return nil
}

func runMigrate(ctx context.Context, cfg *config.Config) error {

	pg, err := database.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	defer pg.Close()

	if err := pgrepo.Migrate(ctx, pg); err != nil {
		return err
	}

	if cfg.Audit.Store == config.AuditStoreClickHouse {
		ch, err := database.NewClickHouse(ctx, cfg.ClickHouse)
		if err != nil {
			return fmt.Errorf("failed to initialize ClickHouse: %w", err)
		}
		defer func() { _ = ch.Close() }()

		if err := chrepo.Migrate(ctx, ch); err != nil {
			return err
		}
	}

	logger.Info("schema applied", zap.String("audit_store", string(cfg.Audit.Store)))
	return nil
}
