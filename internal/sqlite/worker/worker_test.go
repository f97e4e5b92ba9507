package worker

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func newTestWorker(t *testing.T) *Worker {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn, err := db.Conn(context.Background())
	require.NoError(t, err)

	return New(conn)
}

func TestSubmitAutocommitRunsFn(t *testing.T) {
	w := newTestWorker(t)
	defer w.Shutdown()

	val, err := w.SubmitAutocommit(context.Background(), func() (any, error) {
		_, err := w.Conn().ExecContext(context.Background(), "CREATE TABLE t(a INTEGER)")
		return nil, err
	})
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestSubmitAutocommitRefusedDuringTx(t *testing.T) {
	w := newTestWorker(t)
	defer w.Shutdown()

	w.SetInTx(true)
	_, err := w.SubmitAutocommit(context.Background(), func() (any, error) { return nil, nil })
	require.Error(t, err)
}

func TestSubmitHonorsContextCancellation(t *testing.T) {
	w := newTestWorker(t)
	defer w.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.submit(ctx, func() (any, error) {
		time.Sleep(10 * time.Millisecond)
		return nil, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPanicMarksWorkerBroken(t *testing.T) {
	w := newTestWorker(t)
	defer w.Shutdown()

	_, _ = w.SubmitAutocommit(context.Background(), func() (any, error) {
		panic("boom")
	})

	require.Eventually(t, w.Broken, time.Second, time.Millisecond)
}

func TestMarkBroken(t *testing.T) {
	w := newTestWorker(t)
	defer w.Shutdown()

	require.False(t, w.Broken())
	w.MarkBroken()
	require.True(t, w.Broken())
}

func TestShutdownIsIdempotent(t *testing.T) {
	w := newTestWorker(t)

	require.NoError(t, w.Shutdown())
	require.NoError(t, w.Shutdown())
}

func TestSubmitAfterShutdownFails(t *testing.T) {
	w := newTestWorker(t)
	require.NoError(t, w.Shutdown())

	_, err := w.SubmitAutocommit(context.Background(), func() (any, error) { return nil, nil })
	require.Error(t, err)
}
