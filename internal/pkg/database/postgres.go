package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/phee/operations/api/internal/config"
	apperrors "github.com/phee/operations/api/internal/pkg/errors"
	"github.com/phee/operations/api/internal/pkg/logger"
	"github.com/phee/operations/api/internal/pkg/metrics"
)

// PostgresDB wraps a PostgreSQL connection pool
type PostgresDB struct {
	Pool   *pgxpool.Pool
	tracer *queryTracer
}

// NewPostgres creates a new PostgreSQL connection pool
func NewPostgres(ctx context.Context, cfg config.PostgresConfig) (*PostgresDB, error) {
	return NewPostgresFromDSN(ctx, cfg.DSN(), cfg.MaxConns, cfg.MinConns)
}

// NewPostgresFromDSN creates a pool from a ready-made connection string
func NewPostgresFromDSN(ctx context.Context, dsn string, maxConns, minConns int32) (*PostgresDB, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}
	if minConns > 0 {
		poolConfig.MinConns = minConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	tracer := newQueryTracer(logger.IsDebug())
	poolConfig.ConnConfig.Tracer = tracer

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	logger.Info("connected to PostgreSQL",
		zap.String("host", poolConfig.ConnConfig.Host),
		zap.String("database", poolConfig.ConnConfig.Database),
		zap.Int32("max_conns", poolConfig.MaxConns),
	)

	return &PostgresDB{Pool: pool, tracer: tracer}, nil
}

// Close closes the connection pool
func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping verifies the pool can still reach the server
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return apperrors.Unavailable("postgres")
	}
	return db.Pool.Ping(ctx)
}

// QueryMetrics returns the tracer counters collected since the pool was opened
func (db *PostgresDB) QueryMetrics() QueryMetrics {
	if db.tracer == nil {
		return QueryMetrics{}
	}
	return db.tracer.snapshot()
}

// QueryMetrics holds counters for queries issued through a pool
type QueryMetrics struct {
	TotalQueries    int64
	SlowQueries     int64
	FailedQueries   int64
	TotalDurationMs int64
}

const maxLoggedSQL = 200

// queryTracer is a pgx.QueryTracer that feeds the store metrics and logs
// failed and slow statements through the request's logger
type queryTracer struct {
	logEvery bool

	total, slow, failed, durationMs atomic.Int64
}

type tracedQueryKey struct{}

type tracedQuery struct {
	start time.Time
	sql   string
	args  int
}

func newQueryTracer(logEvery bool) *queryTracer {
	return &queryTracer{logEvery: logEvery}
}

func (t *queryTracer) snapshot() QueryMetrics {
	return QueryMetrics{
		TotalQueries:    t.total.Load(),
		SlowQueries:     t.slow.Load(),
		FailedQueries:   t.failed.Load(),
		TotalDurationMs: t.durationMs.Load(),
	}
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, tracedQueryKey{}, tracedQuery{
		start: time.Now(),
		sql:   data.SQL,
		args:  len(data.Args),
	})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	q, ok := ctx.Value(tracedQueryKey{}).(tracedQuery)
	if !ok {
		return
	}

	took := time.Since(q.start)
	slow := took > metrics.SlowQueryThreshold

	t.total.Add(1)
	t.durationMs.Add(took.Milliseconds())
	if slow {
		t.slow.Add(1)
	}
	if data.Err != nil {
		t.failed.Add(1)
	}
	metrics.ObserveQuery("postgres", "pgx", took, data.Err)

	log := logger.FromContext(ctx).With(
		zap.Int64("duration_ms", took.Milliseconds()),
		zap.String("sql", truncateSQL(q.sql, maxLoggedSQL)),
		zap.Int("args", q.args),
	)
	switch {
	case data.Err != nil:
		log.Warn("query failed", zap.Error(data.Err))
	case slow:
		log.Warn("slow query detected")
	case t.logEvery:
		log.Debug("query executed", zap.Int64("rows", data.CommandTag.RowsAffected()))
	}
}

func truncateSQL(sql string, maxLen int) string {
	if len(sql) <= maxLen {
		return sql
	}
	return sql[:maxLen] + "..."
}
