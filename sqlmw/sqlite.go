//go:build !sqlmw_no_sqlite

package sqlmw

import (
	"context"

	"github.com/sqlmw/go-sql-middleware/internal/sqlite"
	"github.com/sqlmw/go-sql-middleware/rows"
	"github.com/sqlmw/go-sql-middleware/value"
)

// NewSQLitePool builds the SQLite Pool (spec §6.1 "Pool::new_sqlite"). See
// NewPostgresPool's doc comment for why this adapter layer exists.
func NewSQLitePool(cfg sqlite.Config) (Pool, error) {
	p, err := sqlite.NewPool(cfg)
	if err != nil {
		return nil, err
	}
	return litePool{p}, nil
}

type litePool struct{ p *sqlite.Pool }

func (a litePool) GetConnection(ctx context.Context) (ConnectionWrapper, error) {
	w, err := a.p.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	return liteConn{w}, nil
}

func (a litePool) Close() error    { return a.p.Close() }
func (a litePool) Backend() string { return a.p.Backend() }

type liteConn struct{ w *sqlite.ConnectionWrapper }

func (a liteConn) Query(sql string) QueryBuilder {
	return liteQuery{a.w.Query(sql)}
}

func (a liteConn) ExecuteBatch(ctx context.Context, sql string) error {
	return a.w.ExecuteBatch(ctx, sql)
}

func (a liteConn) Begin(ctx context.Context) (Tx, error) {
	tx, err := a.w.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return liteTx{tx}, nil
}

func (a liteConn) Close() error { return a.w.Close() }

type liteTx struct{ tx *sqlite.Tx }

func (a liteTx) Prepare(ctx context.Context, sql string) (Prepared, error) {
	p, err := a.tx.Prepare(ctx, sql)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (a liteTx) Query(sql string) QueryBuilder     { return liteQuery{a.tx.Query(sql)} }
func (a liteTx) Commit(ctx context.Context) error   { return a.tx.Commit(ctx) }
func (a liteTx) Rollback(ctx context.Context) error { return a.tx.Rollback(ctx) }

type liteQuery struct{ b *sqlite.QueryBuilder }

func (a liteQuery) Params(params ...value.Value) QueryBuilder {
	a.b.Params(params...)
	return a
}

func (a liteQuery) Translation(t Translation) QueryBuilder {
	a.b.Translation(t)
	return a
}

func (a liteQuery) Select(ctx context.Context) (*rows.ResultSet, error) { return a.b.Select(ctx) }
func (a liteQuery) DML(ctx context.Context) (int64, error)              { return a.b.DML(ctx) }
