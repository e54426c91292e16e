package clickhouse

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phee/operations/api/internal/config"
	"github.com/phee/operations/api/internal/domain"
	"github.com/phee/operations/api/internal/pkg/database"
)

// getTestDB returns a migrated, empty ClickHouse database for integration
// tests. Tests are skipped when CLICKHOUSE_TEST_HOST is not set.
func getTestDB(t *testing.T) *database.ClickHouseDB {
	t.Helper()

	if os.Getenv("CLICKHOUSE_TEST_HOST") == "" {
		t.Skip("Skipping integration test: CLICKHOUSE_TEST_HOST not set")
	}

	cfg := config.ClickHouseConfig{
		Host:     os.Getenv("CLICKHOUSE_TEST_HOST"),
		Port:     9000,
		Database: os.Getenv("CLICKHOUSE_TEST_DB"),
		User:     os.Getenv("CLICKHOUSE_TEST_USER"),
		Password: os.Getenv("CLICKHOUSE_TEST_PASS"),
	}
	if port, err := strconv.Atoi(os.Getenv("CLICKHOUSE_TEST_PORT")); err == nil {
		cfg.Port = port
	}
	if cfg.Database == "" {
		cfg.Database = "default"
	}
	if cfg.User == "" {
		cfg.User = "default"
	}

	ctx := context.Background()
	db, err := database.NewClickHouse(ctx, cfg)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to ClickHouse: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, db.Exec(ctx, "truncate", "TRUNCATE TABLE tasks"))
	require.NoError(t, db.Exec(ctx, "truncate", "TRUNCATE TABLE variables"))

	return db
}

// seed inserts rows into table in one native block. Rows are appended by
// their ch struct tags, so columns must list every tagged field in order.
func seed[T any](t *testing.T, db *database.ClickHouseDB, table, columns string, rows []T) {
	t.Helper()

	ctx := context.Background()
	batch, err := db.Conn.PrepareBatch(ctx, "INSERT INTO "+table+" ("+columns+")")
	require.NoError(t, err)
	for i := range rows {
		require.NoError(t, batch.AppendStruct(&rows[i]))
	}
	require.NoError(t, batch.Send())
}

func seedTasks(t *testing.T, db *database.ClickHouseDB, tasks ...domain.Task) {
	seed(t, db, "tasks", "id, workflow_key, workflow_instance_key, timestamp, element_id, type, name, outcome", tasks)
}

func seedVariables(t *testing.T, db *database.ClickHouseDB, variables ...domain.Variable) {
	seed(t, db, "variables", "id, workflow_key, workflow_instance_key, timestamp, name, value", variables)
}

func TestTaskRepository_ListByWorkflowInstanceKey(t *testing.T) {
	db := getTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	seedTasks(t, db,
		domain.Task{ID: 1, WorkflowKey: 9, WorkflowInstanceKey: 100, Timestamp: 300, Name: "late"},
		domain.Task{ID: 2, WorkflowKey: 9, WorkflowInstanceKey: 100, Timestamp: 100, Name: "early"},
		domain.Task{ID: 3, WorkflowKey: 9, WorkflowInstanceKey: 200, Timestamp: 50, Name: "other"},
	)

	tasks, err := repo.ListByWorkflowInstanceKey(ctx, 100)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "early", tasks[0].Name)
	assert.Equal(t, "late", tasks[1].Name)

	empty, err := repo.ListByWorkflowInstanceKey(ctx, 404)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestVariableRepository_ListByWorkflowInstanceKey(t *testing.T) {
	db := getTestDB(t)
	repo := NewVariableRepository(db)
	ctx := context.Background()

	seedVariables(t, db,
		domain.Variable{ID: 1, WorkflowKey: 9, WorkflowInstanceKey: 100, Timestamp: 20, Name: "b", Value: "2"},
		domain.Variable{ID: 2, WorkflowKey: 9, WorkflowInstanceKey: 100, Timestamp: 10, Name: "a", Value: "1"},
	)

	variables, err := repo.ListByWorkflowInstanceKey(ctx, 100)
	require.NoError(t, err)
	require.Len(t, variables, 2)
	assert.Equal(t, "a", variables[0].Name)
	assert.Equal(t, "b", variables[1].Name)
}
