package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlmw/go-sql-middleware/value"
)

func newTestPool(t *testing.T) *Pool {
	t.Helper()

	p, err := NewPool(Config{Path: ":memory:", PoolSize: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	return p
}

func TestAutocommitQueryRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := newTestPool(t)

	conn, err := p.GetConnection(ctx)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Query("CREATE TABLE widgets(id INTEGER, name TEXT)").DML(ctx)
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

	row := result.Rows()[0]
	name, ok := row.At(1).AsText()
	require.True(t, ok)
	require.Equal(t, "sprocket", name)
}

func TestTransactionCommit(t *testing.T) {
	ctx := context.Background()
	p := newTestPool(t)

	conn, err := p.GetConnection(ctx)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Query("CREATE TABLE counters(n INTEGER)").DML(ctx)
	require.NoError(t, err)

	tx, err := conn.Begin(ctx)
	require.NoError(t, err)

	_, err = tx.Query("INSERT INTO counters(n) VALUES (?1)").Params(value.Int(42)).DML(ctx)
	require.NoError(t, err)

	require.NoError(t, tx.Commit(ctx))

	result, err := conn.Query("SELECT n FROM counters").Select(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	p := newTestPool(t)

	conn, err := p.GetConnection(ctx)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Query("CREATE TABLE counters(n INTEGER)").DML(ctx)
	require.NoError(t, err)

	tx, err := conn.Begin(ctx)
	require.NoError(t, err)

	_, err = tx.Query("INSERT INTO counters(n) VALUES (?1)").Params(value.Int(1)).DML(ctx)
	require.NoError(t, err)

	require.NoError(t, tx.Rollback(ctx))

	result, err := conn.Query("SELECT n FROM counters").Select(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, result.Len())
}

func TestPreparedStatementAfterCommitFails(t *testing.T) {
	ctx := context.Background()
	p := newTestPool(t)

	conn, err := p.GetConnection(ctx)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Query("CREATE TABLE widgets(id INTEGER)").DML(ctx)
	require.NoError(t, err)

	tx, err := conn.Begin(ctx)
	require.NoError(t, err)

	stmt, err := tx.Prepare(ctx, "INSERT INTO widgets(id) VALUES (?1)")
	require.NoError(t, err)

	_, err = stmt.Execute(ctx, value.Int(7))
	require.NoError(t, err)

	require.NoError(t, tx.Commit(ctx))

	_, err = stmt.Execute(ctx, value.Int(8))
	require.Error(t, err)
}

func TestReapBrokenReplacesQuarantinedWorker(t *testing.T) {
	p, err := NewPool(Config{Path: ":memory:", PoolSize: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	w := <-p.free
	w.MarkBroken()
	p.free <- w

	p.reapBroken()

	replacement := <-p.free
	require.False(t, replacement.Broken())
	p.free <- replacement
}

func TestPoolGetConnectionTimesOut(t *testing.T) {
	p := newTestPool(t)

	ctx := context.Background()
	a, err := p.GetConnection(ctx)
	require.NoError(t, err)
	b, err := p.GetConnection(ctx)
	require.NoError(t, err)
	defer a.Close()
	defer b.Close()

	timeoutCtx, cancel := context.WithTimeout(ctx, 0)
	defer cancel()

	_, err = p.GetConnection(timeoutCtx)
	require.Error(t, err)
}
