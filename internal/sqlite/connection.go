package sqlite

import (
	"context"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/internal/sqlite/worker"
)

// ConnectionWrapper is the Idle typestate for SQLite (spec §3/§4.7): it
// owns exactly one checked-out worker.Worker. Every call it makes is
// marshalled onto that worker's goroutine (spec §4.5).
type ConnectionWrapper struct {
	pool             *Pool
	w                *worker.Worker
	translateDefault bool
}

func (c *ConnectionWrapper) Query(sql string) *QueryBuilder {
	return &QueryBuilder{w: c.w, autocommit: true, sql: sql, translateDefault: c.translateDefault, promote: c.pool.cfg.PromoteTextColumns}
}

// ExecuteBatch runs a semicolon-separated batch in an implicit transaction
// (spec §6.1), marshalled onto the worker goroutine like every other
// operation.
func (c *ConnectionWrapper) ExecuteBatch(ctx context.Context, batch string) error {
	_, err := c.w.SubmitAutocommit(ctx, func() (any, error) {
		_, err := c.w.Conn().ExecContext(ctx, "BEGIN; "+batch+"; COMMIT;")
		return nil, err
	})
	if err != nil {
		return dberr.Execution(Backend, err, "can't execute batch")
	}
	return nil
}

// Begin transitions Idle -> InTx, issuing BEGIN on the worker goroutine
// (spec §4.8).
func (c *ConnectionWrapper) Begin(ctx context.Context) (*Tx, error) {
	_, err := c.w.SubmitAutocommit(ctx, func() (any, error) {
		_, err := c.w.Conn().ExecContext(ctx, "BEGIN")
		return nil, err
	})
	if err != nil {
		return nil, dberr.Execution(Backend, err, "can't begin transaction")
	}
	c.w.SetInTx(true)

	return newTx(c.w, c.translateDefault, c.pool.cfg.PromoteTextColumns), nil
}

// Close returns the worker to its pool (spec §3).
func (c *ConnectionWrapper) Close() error {
	c.pool.release(c.w)
	return nil
}
