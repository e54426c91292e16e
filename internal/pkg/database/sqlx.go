package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/phee/operations/api/internal/config"
	apperrors "github.com/phee/operations/api/internal/pkg/errors"
	"github.com/phee/operations/api/internal/pkg/logger"
)

// SQLDB wraps a database/sql handle on the lib/pq driver. The audit
// repositories use it for struct scanning by db tag.
type SQLDB struct {
	DB *sqlx.DB
}

// NewSQL opens a sqlx handle against the same database as NewPostgres
func NewSQL(ctx context.Context, cfg config.PostgresConfig) (*SQLDB, error) {
	db, err := NewSQLFromDSN(ctx, cfg.DSN(), int(cfg.MaxConns))
	if err != nil {
		return nil, err
	}

	logger.Info("opened sqlx handle",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
	)

	return db, nil
}

// NewSQLFromDSN opens a sqlx handle from a ready-made connection string
func NewSQLFromDSN(ctx context.Context, dsn string, maxOpen int) (*SQLDB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect sqlx: %w", err)
	}

	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
		db.SetMaxIdleConns(maxOpen / 2)
	}
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	return &SQLDB{DB: db}, nil
}

// Close closes the handle
func (db *SQLDB) Close() error {
	if db.DB != nil {
		return db.DB.Close()
	}
	return nil
}

// Ping verifies the handle can still reach the server
func (db *SQLDB) Ping(ctx context.Context) error {
	if db.DB == nil {
		return apperrors.Unavailable("postgres")
	}
	return db.DB.PingContext(ctx)
}

// Select runs query and scans every row into dest, recording query metrics
// under the given operation name
func (db *SQLDB) Select(ctx context.Context, operation string, dest any, query string, args ...any) error {
	return observe("postgres", operation, func() error {
		return db.DB.SelectContext(ctx, dest, query, args...)
	})
}
