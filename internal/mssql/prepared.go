package mssql

import (
	"context"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/rows"
	"github.com/sqlmw/go-sql-middleware/value"
)

// Prepared implements spec §4.9's MSSQL row: no true prepared statement,
// just the SQL text re-bound on every call. owner is nil for an
// autocommit-scoped Prepared (borrowed from a ConnectionWrapper, which has
// no completion state to check).
type Prepared struct {
	execer execer
	sql    string
	owner  *Tx
}

func (p *Prepared) checkAlive() error {
	if p.owner != nil && p.owner.completed.Load() {
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

	sqlRows, err := p.execer.QueryContext(ctx, p.sql, args...)
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

	result, err := p.execer.ExecContext(ctx, p.sql, args...)
	if err != nil {
		return 0, dberr.Execution(Backend, err, "can't execute prepared statement")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, dberr.Execution(Backend, err, "can't read affected row count")
	}
	return affected, nil
}

func (p *Prepared) Close() error {
	return nil
}
