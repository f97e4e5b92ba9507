package postgres

import (
	"context"
	"database/sql"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/rows"
	"github.com/sqlmw/go-sql-middleware/value"
)

// Prepared is a compiled statement handle tied to the transaction it was
// prepared against (spec §4.9): using it after Commit/Rollback yields
// dberr.KindExecution because owner.guard.Completed() is true by then.
type Prepared struct {
	stmt  *sql.Stmt
	owner *Tx
}

func (p *Prepared) checkAlive() error {
	if p.owner.guard.Completed() {
		return dberr.Execution(Backend, nil, "prepared statement used after its transaction completed")
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

	sqlRows, err := p.stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, dberr.Execution(Backend, err, "can't execute prepared query")
	}

	return buildResultSet(sqlRows)
}

func (p *Prepared) Execute(ctx context.Context, params ...value.Value) (int64, error) {
	if err := p.checkAlive(); err != nil {
		return 0, err
	}

	args, err := convertParams(params)
	if err != nil {
		return 0, err
	}

	result, err := p.stmt.ExecContext(ctx, args...)
	if err != nil {
		return 0, dberr.Execution(Backend, err, "can't execute prepared statement")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, dberr.Execution(Backend, err, "can't read affected row count")
	}
	return affected, nil
}

// Close releases the underlying *sql.Stmt. Safe to call after the owning
// transaction has already committed or rolled back (database/sql no-ops).
func (p *Prepared) Close() error {
	if err := p.stmt.Close(); err != nil {
		return dberr.Execution(Backend, err, "can't close prepared statement")
	}
	return nil
}
