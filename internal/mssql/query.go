package mssql

import (
	"context"
	"database/sql"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/placeholder"
	"github.com/sqlmw/go-sql-middleware/rows"
	"github.com/sqlmw/go-sql-middleware/value"
)

// execer is satisfied by both *sql.Conn and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// QueryBuilder implements spec §4.10 for MSSQL. Translation is always a
// no-op (spec §4.4: MSSQL's native @pN form skips translation), so
// Translation exists only to satisfy sqlmw.QueryBuilder's fluent shape.
type QueryBuilder struct {
	execer execer
	sql    string
	params []value.Value
}

func (b *QueryBuilder) Params(params ...value.Value) *QueryBuilder {
	b.params = params
	return b
}

func (b *QueryBuilder) Translation(t placeholder.Toggle) *QueryBuilder {
	return b
}

func (b *QueryBuilder) Select(ctx context.Context) (*rows.ResultSet, error) {
	args, err := convertParams(b.params)
	if err != nil {
		return nil, err
	}

	sqlRows, err := b.execer.QueryContext(ctx, b.sql, args...)
	if err != nil {
		return nil, dberr.Execution(Backend, err, "can't execute query")
	}
	return buildResultSet(sqlRows)
}

func (b *QueryBuilder) DML(ctx context.Context) (int64, error) {
	args, err := convertParams(b.params)
	if err != nil {
		return 0, err
	}

	result, err := b.execer.ExecContext(ctx, b.sql, args...)
	if err != nil {
		return 0, dberr.Execution(Backend, err, "can't execute statement")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, dberr.Execution(Backend, err, "can't read affected row count")
	}
	return affected, nil
}
