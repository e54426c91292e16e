package main

import (
	"context"
	"fmt"

	"github.com/phee/operations/api/internal/config"
	"github.com/phee/operations/api/internal/pkg/database"
)

// Databases holds the open store connections. ClickHouse is opened only
// when it serves the audit records, Redis only when rate limiting is on.
type Databases struct {
	Postgres   *database.PostgresDB
	SQL        *database.SQLDB
	ClickHouse *database.ClickHouseDB
	Redis      *database.RedisDB

	closers []func()
}

func initDatabases(ctx context.Context, cfg *config.Config) (_ *Databases, err error) {
	dbs := &Databases{}
	defer func() {
		if err != nil {
			dbs.Close()
		}
	}()

	if dbs.Postgres, err = database.NewPostgres(ctx, cfg.Postgres); err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	dbs.closers = append(dbs.closers, dbs.Postgres.Close)

	if dbs.SQL, err = database.NewSQL(ctx, cfg.Postgres); err != nil {
		return nil, fmt.Errorf("postgres sqlx: %w", err)
	}
	dbs.closers = append(dbs.closers, func() { _ = dbs.SQL.Close() })

	if cfg.Audit.Store == config.AuditStoreClickHouse {
		if dbs.ClickHouse, err = database.NewClickHouse(ctx, cfg.ClickHouse); err != nil {
			return nil, fmt.Errorf("clickhouse: %w", err)
		}
		dbs.closers = append(dbs.closers, func() { _ = dbs.ClickHouse.Close() })
	}

	if cfg.RateLimit.Enabled {
		if dbs.Redis, err = database.NewRedis(ctx, cfg.Redis); err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		dbs.closers = append(dbs.closers, func() { _ = dbs.Redis.Close() })
	}

	return dbs, nil
}

// healthChecks names a probe for every open connection
func (d *Databases) healthChecks() map[string]pinger {
	checks := map[string]pinger{"postgres": d.Postgres}
	if d.ClickHouse != nil {
		checks["clickhouse"] = d.ClickHouse
	}
	if d.Redis != nil {
		checks["redis"] = d.Redis
	}
	return checks
}

// Close releases connections in reverse opening order
func (d *Databases) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}
