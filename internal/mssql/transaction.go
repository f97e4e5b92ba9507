package mssql

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/sqlmw/go-sql-middleware/dberr"
)

// Tx is the InTx typestate for MSSQL (spec §3/§4.8). It carries no
// drop-time rollback guard: per spec §4.8, "MSSQL: no drop rollback -
// callers must explicitly finish." A Tx dropped without Commit/Rollback
// simply leaves the server-side transaction open until the connection is
// reused or closed.
//
// completed is tracked explicitly (no finalizer) purely so Prepared handles
// bound to this Tx can refuse use after Commit/Rollback, matching the other
// backends' "Prepared is invalid after its owner's lifetime ends" rule
// (spec §4.9, §8.1) even though MSSQL has no true prepared form to protect.
type Tx struct {
	sqlTx     *sql.Tx
	completed atomic.Bool
}

// Prepare implements spec §4.9's MSSQL row: no true prepared form, the
// handle just stores the SQL text and re-binds parameters on every call.
func (t *Tx) Prepare(ctx context.Context, sqlText string) (*Prepared, error) {
	return &Prepared{execer: t.sqlTx, sql: sqlText, owner: t}, nil
}

func (t *Tx) Query(sql string) *QueryBuilder {
	return &QueryBuilder{execer: t.sqlTx, sql: sql}
}

func (t *Tx) Commit(ctx context.Context) error {
	t.completed.Store(true)
	if err := t.sqlTx.Commit(); err != nil {
		return dberr.Execution(Backend, err, "can't commit transaction")
	}
	return nil
}

func (t *Tx) Rollback(ctx context.Context) error {
	t.completed.Store(true)
	if err := t.sqlTx.Rollback(); err != nil {
		return dberr.Execution(Backend, err, "can't roll back transaction")
	}
	return nil
}
