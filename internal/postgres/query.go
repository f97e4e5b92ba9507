package postgres

import (
	"context"
	"database/sql"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/placeholder"
	"github.com/sqlmw/go-sql-middleware/rows"
	"github.com/sqlmw/go-sql-middleware/value"
)

// execer is satisfied by both *sql.Conn (autocommit) and *sql.Tx
// (transaction-scoped), letting QueryBuilder dispatch the same way
// regardless of which typestate it was obtained from.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// QueryBuilder implements spec §4.10: records the SQL string, an optional
// parameter slice and an optional translation override, dispatching on a
// terminal Select/DML call.
type QueryBuilder struct {
	execer           execer
	sql              string
	params           []value.Value
	translation      placeholder.Toggle
	translateDefault bool
}

func (b *QueryBuilder) Params(params ...value.Value) *QueryBuilder {
	b.params = params
	return b
}

func (b *QueryBuilder) Translation(t placeholder.Toggle) *QueryBuilder {
	b.translation = t
	return b
}

// resolvedSQL implements spec §4.10's dispatch step 1: skip translation if
// params are empty, otherwise resolve the toggle and apply the translator.
func (b *QueryBuilder) resolvedSQL() string {
	enabled := placeholder.Resolve(b.translation, b.translateDefault)
	return placeholder.Translate(b.sql, placeholderStyle, len(b.params), enabled)
}

// Select is a terminal method returning a materialized ResultSet.
func (b *QueryBuilder) Select(ctx context.Context) (*rows.ResultSet, error) {
	args, err := convertParams(b.params)
	if err != nil {
		return nil, err
	}

	sqlRows, err := b.execer.QueryContext(ctx, b.resolvedSQL(), args...)
	if err != nil {
		return nil, dberr.Execution(Backend, err, "can't execute query")
	}

	return buildResultSet(sqlRows)
}

// DML is a terminal method returning the affected-row count.
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

// translateForPrepare applies placeholder translation to a statement being
// prepared ahead of any per-call parameter count (spec §4.9): prepare-time
// translation only needs to know whether translation is enabled at all, not
// how many placeholders will eventually be bound, so it passes a nonzero
// sentinel in place of the real parameter count Translate otherwise uses to
// implement "skip when params is empty".
func translateForPrepare(sqlText string, translateDefault bool) string {
	return placeholder.Translate(sqlText, placeholderStyle, 1, translateDefault)
}
