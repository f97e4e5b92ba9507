package turso

import (
	"context"
	"database/sql"

	"github.com/sqlmw/go-sql-middleware/dberr"
)

// ConnectionWrapper is the Idle typestate for Turso (spec §3/§4.7).
type ConnectionWrapper struct {
	conn             *sql.Conn
	translateDefault bool
	promote          bool
}

func (c *ConnectionWrapper) Query(sql string) *QueryBuilder {
	return &QueryBuilder{execer: c.conn, sql: sql, translateDefault: c.translateDefault, promote: c.promote}
}

func (c *ConnectionWrapper) ExecuteBatch(ctx context.Context, batch string) error {
	if _, err := c.conn.ExecContext(ctx, batch); err != nil {
		return dberr.Execution(Backend, err, "can't execute batch")
	}
	return nil
}

// Begin transitions Idle -> InTx (spec §4.8); the returned Tx arms a
// fire-and-forget drop-time rollback like Postgres's.
func (c *ConnectionWrapper) Begin(ctx context.Context) (*Tx, error) {
	sqlTx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, dberr.Execution(Backend, err, "can't begin transaction")
	}
	return newTx(sqlTx, c.translateDefault, c.promote), nil
}

func (c *ConnectionWrapper) Close() error {
	return c.conn.Close()
}
