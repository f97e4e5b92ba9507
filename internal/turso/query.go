package turso

import (
	"context"
	"database/sql"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/placeholder"
	"github.com/sqlmw/go-sql-middleware/rows"
	"github.com/sqlmw/go-sql-middleware/value"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// QueryBuilder implements spec §4.10 for Turso. Like internal/sqlite,
// translation is always a no-op here since Turso speaks ?N natively.
type QueryBuilder struct {
	execer           execer
	sql              string
	params           []value.Value
	translation      placeholder.Toggle
	translateDefault bool
	promote          bool
}

func (b *QueryBuilder) Params(params ...value.Value) *QueryBuilder {
	b.params = params
	return b
}

func (b *QueryBuilder) Translation(t placeholder.Toggle) *QueryBuilder {
	b.translation = t
	return b
}

func (b *QueryBuilder) resolvedSQL() string {
	enabled := placeholder.Resolve(b.translation, b.translateDefault)
	return placeholder.Translate(b.sql, placeholder.StyleNone, len(b.params), enabled)
}

func (b *QueryBuilder) Select(ctx context.Context) (*rows.ResultSet, error) {
	args, err := convertParams(b.params)
	if err != nil {
		return nil, err
	}

	sqlRows, err := b.execer.QueryContext(ctx, b.resolvedSQL(), args...)
	if err != nil {
		return nil, dberr.Execution(Backend, err, "can't execute query")
	}
	return buildResultSet(sqlRows, b.promote)
}

func (b *QueryBuilder) DML(ctx context.Context) (int64, error) {
	args, err := convertParams(b.params)
	if err != nil {
		return 0, err
	}

	result, err := b.execer.ExecContext(ctx, b.resolvedSQL(), args...)
	if err != nil {
		return 0, dberr.Execution(Backend, err, "can't execute statement")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, dberr.Execution(Backend, err, "can't read affected row count")
	}
	return affected, nil
}
