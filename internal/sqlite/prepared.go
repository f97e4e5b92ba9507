package sqlite

import (
	"context"
	"database/sql"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/internal/sqlite/worker"
	"github.com/sqlmw/go-sql-middleware/rows"
	"github.com/sqlmw/go-sql-middleware/value"
)

// Prepared is the Prepared typestate for SQLite (spec §4.9). Unlike
// Postgres, this does not hold a driver-level *sql.Stmt: database/sql
// already caches compiled plans per *sql.Conn for repeated query text, so a
// second hand-rolled cache here would just shadow it. What Prepared adds is
// the worker-bound lifetime: every call is marshalled onto the owning
// worker, and it becomes unusable once the owning transaction completes.
type Prepared struct {
	w     *worker.Worker
	owner *Tx
	sql   string
}

func (p *Prepared) checkAlive() error {
	if p.owner.guard.Completed() {
		return dberr.Execution(Backend, nil, "prepared statement's transaction has already completed")
	}
	return nil
}

func (p *Prepared) Query(ctx context.Context, params ...value.Value) (*rows.ResultSet, error) {
	if err := p.checkAlive(); err != nil {
		return nil, err
	}

	args, err := convertParams(params)
	if err != nil {
		return nil, err
	}

	val, err := p.w.SubmitTx(ctx, func() (any, error) {
		return p.w.Conn().QueryContext(ctx, p.sql, args...)
	})
	if err != nil {
		return nil, dberr.Execution(Backend, err, "can't execute prepared query")
	}

	return buildResultSet(val.(*sql.Rows), p.owner.promote)
}

func (p *Prepared) Execute(ctx context.Context, params ...value.Value) (int64, error) {
	if err := p.checkAlive(); err != nil {
		return 0, err
	}

	args, err := convertParams(params)
	if err != nil {
		return 0, err
	}

	val, err := p.w.SubmitTx(ctx, func() (any, error) {
		return p.w.Conn().ExecContext(ctx, p.sql, args...)
	})
	if err != nil {
		return 0, dberr.Execution(Backend, err, "can't execute prepared statement")
	}

	affected, err := val.(sql.Result).RowsAffected()
	if err != nil {
		return 0, dberr.Execution(Backend, err, "can't read affected row count")
	}
	return affected, nil
}

func (p *Prepared) Close() error {
	return nil
}
