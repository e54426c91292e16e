package database

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/phee/operations/api/internal/config"
	apperrors "github.com/phee/operations/api/internal/pkg/errors"
	"github.com/phee/operations/api/internal/pkg/logger"
)

// ClickHouseDB holds the connection of the optional task and variable store
type ClickHouseDB struct {
	Conn driver.Conn
}

func clickHouseOptions(cfg config.ClickHouseConfig) *clickhouse.Options {
	return &clickhouse.Options{
		Addr: []string{net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			// audit trail lookups are point reads on the sort key
			"max_execution_time": 30,
		},
		Compression:     &clickhouse.Compression{Method: clickhouse.CompressionLZ4},
		DialTimeout:     5 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	}
}

// NewClickHouse opens and verifies a ClickHouse connection
func NewClickHouse(ctx context.Context, cfg config.ClickHouseConfig) (*ClickHouseDB, error) {
	opts := clickHouseOptions(cfg)

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open clickhouse connection: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping clickhouse at %s: %w", opts.Addr[0], err)
	}

	logger.Info("connected to ClickHouse",
		zap.String("addr", opts.Addr[0]),
		zap.String("database", cfg.Database),
	)

	return &ClickHouseDB{Conn: conn}, nil
}

func (db *ClickHouseDB) Close() error {
	if db.Conn == nil {
		return nil
	}
	return db.Conn.Close()
}

// Ping reports whether ClickHouse answers
func (db *ClickHouseDB) Ping(ctx context.Context) error {
	if db.Conn == nil {
		return apperrors.Unavailable("clickhouse")
	}
	return db.Conn.Ping(ctx)
}

// Exec runs a DDL or write statement
func (db *ClickHouseDB) Exec(ctx context.Context, operation, query string, args ...any) error {
	return observe("clickhouse", operation, func() error {
		return db.Conn.Exec(ctx, query, args...)
	})
}

// Select scans the rows of query into dest, a pointer to a slice of
// ch-tagged structs
func (db *ClickHouseDB) Select(ctx context.Context, operation string, dest any, query string, args ...any) error {
	return observe("clickhouse", operation, func() error {
		return db.Conn.Select(ctx, dest, query, args...)
	})
}
