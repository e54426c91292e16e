package database

import (
	"time"

	"github.com/phee/operations/api/internal/pkg/metrics"
)

// observe times fn and records it as one query against database
func observe(database, operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.ObserveQuery(database, operation, time.Since(start), err)
	return err
}
