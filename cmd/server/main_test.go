package main

import (
	"fmt"
	"os"
	"testing"

	"github.com/phee/operations/api/internal/pkg/logger"
)

func TestMain(m *testing.M) {
	_ = logger.Init(logger.Config{Level: "error", Format: "console"})
	os.Exit(m.Run())
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
