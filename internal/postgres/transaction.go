package postgres

import (
	"context"
	"database/sql"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/internal/txutil"
)

// Tx is the InTx typestate (spec §3/§4.8): a transaction handle bound to the
// *sql.Tx it was begun on. Dropping it without Commit/Rollback fires a
// best-effort ROLLBACK on a background goroutine (spec §4.8 "PostgreSQL /
// Turso: spawn a fire-and-forget rollback").
type Tx struct {
	sqlTx            *sql.Tx
	translateDefault bool
	guard            txutil.Guard
}

func newTx(sqlTx *sql.Tx, translateDefault bool) *Tx {
	tx := &Tx{sqlTx: sqlTx, translateDefault: translateDefault}
	tx.guard.Arm(tx, func() {
		// Best-effort: the caller already lost its handle to the connection
		// by the time GC runs this, so there is nothing left to report the
		// error to beyond logging, which this package leaves to the pool's
		// broken-connection detection on the next checkout.
		_ = sqlTx.Rollback()
	})
	return tx
}

// Prepare compiles sql against this transaction (spec §4.9): tied to the
// transaction, invalid after Commit/Rollback.
func (t *Tx) Prepare(ctx context.Context, sqlText string) (*Prepared, error) {
	translated := translateForPrepare(sqlText, t.translateDefault)

	stmt, err := t.sqlTx.PrepareContext(ctx, translated)
	if err != nil {
		return nil, dberr.Execution(Backend, err, "can't prepare statement")
	}

	return &Prepared{stmt: stmt, owner: t}, nil
}

// Query starts a fluent query builder scoped to this transaction.
func (t *Tx) Query(sql string) *QueryBuilder {
	return &QueryBuilder{execer: t.sqlTx, sql: sql, translateDefault: t.translateDefault}
}

// Commit issues COMMIT and transitions InTx -> NoTx (spec §4.8).
func (t *Tx) Commit(ctx context.Context) error {
	t.guard.MarkCompleted()
	txutil.Disarm(t)

	if err := t.sqlTx.Commit(); err != nil {
		return dberr.Execution(Backend, err, "can't commit transaction")
	}
	return nil
}

// Rollback issues ROLLBACK and transitions InTx -> NoTx (spec §4.8).
func (t *Tx) Rollback(ctx context.Context) error {
	t.guard.MarkCompleted()
	txutil.Disarm(t)

	if err := t.sqlTx.Rollback(); err != nil {
		return dberr.Execution(Backend, err, "can't roll back transaction")
	}
	return nil
}
