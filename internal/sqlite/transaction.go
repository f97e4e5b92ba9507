package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/sqlmw/go-sql-middleware/backoff"
	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/internal/sqlite/worker"
	"github.com/sqlmw/go-sql-middleware/internal/txutil"
)

// sqliteBusy is modernc.org/sqlite's numeric result code for SQLITE_BUSY.
const sqliteBusy = 5

type sqliteCoder interface{ Code() int }

func isBusy(err error) bool {
	var c sqliteCoder
	return errors.As(err, &c) && c.Code() == sqliteBusy
}

// Tx is the InTx typestate for SQLite (spec §3/§4.8), bound to the worker
// that ran its BEGIN. Dropping it without Commit/Rollback issues a
// synchronous ROLLBACK on the worker, retried on SQLITE_BUSY with
// backoff.SQLiteBusyRetry; exhaustion marks the worker's connection broken
// instead of retrying forever (spec §4.8 "On exhaustion, mark the
// connection broken").
type Tx struct {
	w                *worker.Worker
	translateDefault bool
	promote          bool
	guard            txutil.Guard
}

func newTx(w *worker.Worker, translateDefault, promote bool) *Tx {
	tx := &Tx{w: w, translateDefault: translateDefault, promote: promote}
	tx.guard.Arm(tx, func() {
		tx.dropRollback()
	})
	return tx
}

// dropRollback runs on the finalizer goroutine with no caller context, so it
// builds its own background-rooted deadline (spec §9 "onDrop ... receives a
// fresh context.Background()-rooted call budget from the backend").
func (t *Tx) dropRollback() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for attempt := uint64(0); ; attempt++ {
		_, err := t.w.SubmitTx(ctx, func() (any, error) {
			_, err := t.w.Conn().ExecContext(ctx, "ROLLBACK")
			return nil, err
		})
		if err == nil {
			t.w.SetInTx(false)
			return
		}
		if !isBusy(err) {
			return
		}

		select {
		case <-time.After(backoff.SQLiteBusyRetry(attempt)):
		case <-ctx.Done():
			t.w.MarkBroken()
			return
		}
		if attempt >= 2 {
			t.w.MarkBroken()
			return
		}
	}
}

func (t *Tx) Prepare(ctx context.Context, sqlText string) (*Prepared, error) {
	return &Prepared{w: t.w, owner: t, sql: sqlText}, nil
}

func (t *Tx) Query(sql string) *QueryBuilder {
	return &QueryBuilder{w: t.w, autocommit: false, sql: sql, translateDefault: t.translateDefault, promote: t.promote}
}

func (t *Tx) Commit(ctx context.Context) error {
	t.guard.MarkCompleted()
	txutil.Disarm(t)

	_, err := t.w.SubmitTx(ctx, func() (any, error) {
		_, err := t.w.Conn().ExecContext(ctx, "COMMIT")
		return nil, err
	})
	t.w.SetInTx(false)
	if err != nil {
		return dberr.Execution(Backend, err, "can't commit transaction")
	}
	return nil
}

func (t *Tx) Rollback(ctx context.Context) error {
	t.guard.MarkCompleted()
	txutil.Disarm(t)

	_, err := t.w.SubmitTx(ctx, func() (any, error) {
		_, err := t.w.Conn().ExecContext(ctx, "ROLLBACK")
		return nil, err
	})
	t.w.SetInTx(false)
	if err != nil {
		return dberr.Execution(Backend, err, "can't roll back transaction")
	}
	return nil
}
