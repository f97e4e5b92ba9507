package postgres

import (
	"context"
	"testing"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sqlmw/go-sql-middleware/value"
)

// newTestServer starts a throwaway embedded PostgreSQL instance on a random
// port so Pool/Tx/QueryBuilder can be exercised end-to-end without a
// pre-provisioned server - the live-database gap the param-converter/
// result-builder unit tests in params_test.go/result_test.go can't close on
// their own. Skipped under -short since it downloads and boots a real
// postgres binary on first run.
func newTestServer(t *testing.T) Config {
	t.Helper()
	if testing.Short() {
		t.Skip("embedded postgres needs network access for its first run")
	}

	port := uint32(40000 + uint32(len(t.Name()))%1000)
	dbName := "sqlmw_" + uuid.NewString()[:8]

	server := embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
		Username("sqlmw").
		Password("sqlmw").
		Database(dbName).
		Port(port))

	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Stop() })

	return Config{
		Host:     "localhost",
		Port:     int(port),
		Database: dbName,
		User:     "sqlmw",
		Password: "sqlmw",
		SSLMode:  "disable",
	}
}

func TestPoolQueryRoundTrip(t *testing.T) {
	cfg := newTestServer(t)

	pool, err := NewPool(cfg, nil)
	require.NoError(t, err)
	defer pool.Close()

	ctx := context.Background()
	conn, err := pool.GetConnection(ctx)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Query("CREATE TABLE widgets(id INT, name TEXT)").DML(ctx)
	require.NoError(t, err)

	affected, err := conn.Query("INSERT INTO widgets(id, name) VALUES (?1, ?2)").
		Params(value.Int(1), value.Text("sprocket")).
		DML(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	result, err := conn.Query("SELECT id, name FROM widgets WHERE id = ?1").
		Params(value.Int(1)).
		Select(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())

	name, ok := result.Rows()[0].At(1).AsText()
	require.True(t, ok)
	require.Equal(t, "sprocket", name)
}

func TestTransactionCommitAndRollback(t *testing.T) {
	cfg := newTestServer(t)

	pool, err := NewPool(cfg, nil)
	require.NoError(t, err)
	defer pool.Close()

	ctx := context.Background()
	conn, err := pool.GetConnection(ctx)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Query("CREATE TABLE counters(n INT)").DML(ctx)
	require.NoError(t, err)

	tx, err := conn.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Query("INSERT INTO counters(n) VALUES (?1)").Params(value.Int(1)).DML(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))

	result, err := conn.Query("SELECT n FROM counters").Select(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, result.Len())

	tx, err = conn.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Query("INSERT INTO counters(n) VALUES (?1)").Params(value.Int(2)).DML(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	result, err = conn.Query("SELECT n FROM counters").Select(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())
}
