package turso

import (
	"context"
	"database/sql"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/internal/txutil"
)

// Tx is the InTx typestate for Turso (spec §3/§4.8). Dropping it without
// Commit/Rollback fires a best-effort ROLLBACK on a background goroutine,
// the same fire-and-forget policy internal/postgres uses (spec §4.8
// "PostgreSQL / Turso: spawn a fire-and-forget rollback").
type Tx struct {
	sqlTx            *sql.Tx
	translateDefault bool
	promote          bool
	guard            txutil.Guard
}

func newTx(sqlTx *sql.Tx, translateDefault, promote bool) *Tx {
	tx := &Tx{sqlTx: sqlTx, translateDefault: translateDefault, promote: promote}
	tx.guard.Arm(tx, func() {
		_ = sqlTx.Rollback()
	})
	return tx
}

// Prepare compiles sql against this transaction (spec §4.9 "Turso
// tx-prepared: wraps the compiled statement under a mutex so clones can
// share it safely across async tasks; the statement is reset after each
// use").
func (t *Tx) Prepare(ctx context.Context, sqlText string) (*Prepared, error) {
	stmt, err := t.sqlTx.PrepareContext(ctx, sqlText)
	if err != nil {
		return nil, dberr.Execution(Backend, err, "can't prepare statement")
	}
	return newPrepared(stmt, t, sqlText), nil
}

func (t *Tx) Query(sql string) *QueryBuilder {
	return &QueryBuilder{execer: t.sqlTx, sql: sql, translateDefault: t.translateDefault, promote: t.promote}
}

func (t *Tx) Commit(ctx context.Context) error {
	t.guard.MarkCompleted()
	txutil.Disarm(t)

	if err := t.sqlTx.Commit(); err != nil {
		return dberr.Execution(Backend, err, "can't commit transaction")
	}
	return nil
}

func (t *Tx) Rollback(ctx context.Context) error {
	t.guard.MarkCompleted()
	txutil.Disarm(t)

	if err := t.sqlTx.Rollback(); err != nil {
		return dberr.Execution(Backend, err, "can't roll back transaction")
	}
	return nil
}
