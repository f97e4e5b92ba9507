package postgres

import (
	"context"
	"database/sql"

	"github.com/sqlmw/go-sql-middleware/dberr"
)

// ConnectionWrapper is the Idle typestate (spec §3/§4.7): it owns exactly
// one checked-out *sql.Conn and the pool-default translation flag. Closing
// it returns the connection to the pool.
type ConnectionWrapper struct {
	conn             *sql.Conn
	translateDefault bool
}

// Query starts a fluent query builder bound to this connection (spec §4.10).
func (w *ConnectionWrapper) Query(sql string) *QueryBuilder {
	return &QueryBuilder{execer: w.conn, sql: sql, translateDefault: w.translateDefault}
}

// ExecuteBatch runs a semicolon-separated batch in an implicit transaction
// (spec §6.1). lib/pq's simple query protocol - used automatically by
// database/sql when ExecContext is called with no arguments - already
// executes a multi-statement string as one implicit transaction, so no
// explicit BEGIN/COMMIT wrapping is required here.
func (w *ConnectionWrapper) ExecuteBatch(ctx context.Context, batch string) error {
	if _, err := w.conn.ExecContext(ctx, batch); err != nil {
		return dberr.Execution(Backend, err, "can't execute batch")
	}
	return nil
}

// Begin transitions Idle -> InTx, issuing BEGIN (spec §4.8).
func (w *ConnectionWrapper) Begin(ctx context.Context) (*Tx, error) {
	sqlTx, err := w.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, dberr.Execution(Backend, err, "can't begin transaction")
	}

	return newTx(sqlTx, w.translateDefault), nil
}

// Close returns the connection to its pool (spec §3).
func (w *ConnectionWrapper) Close() error {
	if err := w.conn.Close(); err != nil {
		return dberr.Connection(Backend, err, "can't release connection")
	}
	return nil
}
