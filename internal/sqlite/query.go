package sqlite

import (
	"context"
	"database/sql"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/internal/sqlite/worker"
	"github.com/sqlmw/go-sql-middleware/placeholder"
	"github.com/sqlmw/go-sql-middleware/rows"
	"github.com/sqlmw/go-sql-middleware/value"
)

// QueryBuilder implements spec §4.10 for SQLite: every terminal call is
// marshalled onto the owning worker goroutine, through SubmitAutocommit or
// SubmitTx depending on which typestate built it.
type QueryBuilder struct {
	w                *worker.Worker
	autocommit       bool
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

// resolvedSQL implements spec §4.10 step 1. SQLite already speaks ?N
// natively (placeholder.StyleNone here), so Translate is always a no-op for
// this backend - kept for symmetry with the other backends' dispatch shape.
func (b *QueryBuilder) resolvedSQL() string {
	enabled := placeholder.Resolve(b.translation, b.translateDefault)
	return placeholder.Translate(b.sql, placeholder.StyleNone, len(b.params), enabled)
}

func (b *QueryBuilder) submit(ctx context.Context, fn func() (any, error)) (any, error) {
	if b.autocommit {
		return b.w.SubmitAutocommit(ctx, fn)
	}
	return b.w.SubmitTx(ctx, fn)
}

func (b *QueryBuilder) Select(ctx context.Context) (*rows.ResultSet, error) {
	args, err := convertParams(b.params)
	if err != nil {
		return nil, err
	}

	val, err := b.submit(ctx, func() (any, error) {
		return b.w.Conn().QueryContext(ctx, b.resolvedSQL(), args...)
	})
	if err != nil {
		return nil, dberr.Execution(Backend, err, "can't execute query")
	}

	return buildResultSet(val.(*sql.Rows), b.promote)
}

func (b *QueryBuilder) DML(ctx context.Context) (int64, error) {
	args, err := convertParams(b.params)
	if err != nil {
		return 0, err
	}

	val, err := b.submit(ctx, func() (any, error) {
		return b.w.Conn().ExecContext(ctx, b.resolvedSQL(), args...)
	})
	if err != nil {
		return 0, dberr.Execution(Backend, err, "can't execute statement")
	}

	result := val.(sql.Result)
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, dberr.Execution(Backend, err, "can't read affected row count")
	}
	return affected, nil
}
