package mssql

import (
	"context"
	"database/sql"

	"github.com/sqlmw/go-sql-middleware/dberr"
)

// ConnectionWrapper is the Idle typestate for MSSQL (spec §3/§4.7).
type ConnectionWrapper struct {
	conn *sql.Conn
}

func (c *ConnectionWrapper) Query(sql string) *QueryBuilder {
	return &QueryBuilder{execer: c.conn, sql: sql}
}

func (c *ConnectionWrapper) ExecuteBatch(ctx context.Context, batch string) error {
	if _, err := c.conn.ExecContext(ctx, batch); err != nil {
		return dberr.Execution(Backend, err, "can't execute batch")
	}
	return nil
}

// Begin transitions Idle -> InTx (spec §4.8). MSSQL has no drop-time
// rollback (spec §4.8 "MSSQL: no drop rollback - callers must explicitly
// finish"), so Tx here carries no finalizer guard.
func (c *ConnectionWrapper) Begin(ctx context.Context) (*Tx, error) {
	sqlTx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, dberr.Execution(Backend, err, "can't begin transaction")
	}
	return &Tx{sqlTx: sqlTx}, nil
}

func (c *ConnectionWrapper) Close() error {
	return c.conn.Close()
}
