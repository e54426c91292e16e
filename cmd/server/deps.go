package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/phee/operations/api/internal/config"
	"github.com/phee/operations/api/internal/handler"
	"github.com/phee/operations/api/internal/middleware"
	chrepo "github.com/phee/operations/api/internal/repository/clickhouse"
	pgrepo "github.com/phee/operations/api/internal/repository/postgres"
	"github.com/phee/operations/api/internal/service"
)

type pinger = handler.Pinger

// Repositories holds the store implementations behind the services
type Repositories struct {
	Transactions service.TransactionRepository
	Tasks        service.TaskRepository
	Variables    service.VariableRepository
	BusinessKeys service.BusinessKeyRepository
}

// Handlers holds all HTTP handlers
type Handlers struct {
	Health       *handler.HealthHandler
	Transactions *handler.TransactionsHandler
	Audit        *handler.AuditHandler
}

// Dependencies holds all application dependencies
type Dependencies struct {
	Config    *config.Config
	Logger    *zap.Logger
	Databases *Databases

	Repositories *Repositories
	QueryService *service.QueryService
	AuditService *service.AuditService
	Handlers     *Handlers

	// RateLimiter is nil when rate limiting is disabled
	RateLimiter *middleware.RateLimitMiddleware
}

// initDependencies initializes all dependencies
func initDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	dbs, err := initDatabases(ctx, cfg)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Config:    cfg,
		Logger:    logger,
		Databases: dbs,
	}

	if cfg.Postgres.AutoMigrate {
		if err := pgrepo.Migrate(ctx, dbs.Postgres); err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to migrate PostgreSQL: %w", err)
		}
		if dbs.ClickHouse != nil {
			if err := chrepo.Migrate(ctx, dbs.ClickHouse); err != nil {
				deps.Close()
				return nil, fmt.Errorf("failed to migrate ClickHouse: %w", err)
			}
		}
	}

	deps.Repositories = initRepositories(cfg, dbs)
	deps.QueryService = service.NewQueryService(
		deps.Repositories.Transactions,
		deps.Repositories.Tasks,
		deps.Repositories.Variables,
		deps.Repositories.BusinessKeys,
	)
	deps.AuditService = service.NewAuditService(deps.QueryService)

	deps.Handlers = &Handlers{
		Health:       handler.NewHealthHandler(dbs.healthChecks(), appVersion),
		Transactions: handler.NewTransactionsHandler(deps.QueryService, logger, cfg.Server.MaxPageSize),
		Audit:        handler.NewAuditHandler(deps.AuditService, logger),
	}

	if dbs.Redis != nil {
		deps.RateLimiter = middleware.NewRateLimitMiddleware(dbs.Redis.Client, middleware.RateLimitConfig{
			Max:    cfg.RateLimit.RequestsPerMinute,
			Logger: logger,
		})
	}

	logger.Info("dependencies initialized",
		zap.String("audit_store", string(cfg.Audit.Store)),
		zap.Bool("rate_limit", deps.RateLimiter != nil),
	)

	return deps, nil
}

// initRepositories picks the task and variable store configured for audit
// records. Transactions and business keys always live in PostgreSQL.
func initRepositories(cfg *config.Config, dbs *Databases) *Repositories {
	repos := &Repositories{
		Transactions: pgrepo.NewTransactionRepository(dbs.Postgres),
		BusinessKeys: pgrepo.NewBusinessKeyRepository(dbs.SQL),
	}

	if cfg.Audit.Store == config.AuditStoreClickHouse && dbs.ClickHouse != nil {
		repos.Tasks = chrepo.NewTaskRepository(dbs.ClickHouse)
		repos.Variables = chrepo.NewVariableRepository(dbs.ClickHouse)
	} else {
		repos.Tasks = pgrepo.NewTaskRepository(dbs.SQL)
		repos.Variables = pgrepo.NewVariableRepository(dbs.SQL)
	}

	return repos
}

// Close releases all held connections
func (d *Dependencies) Close() {
	if d.Databases != nil {
		d.Databases.Close()
	}
}
