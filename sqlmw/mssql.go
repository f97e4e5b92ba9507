//go:build !sqlmw_no_mssql

package sqlmw

import (
	"context"

	"github.com/sqlmw/go-sql-middleware/internal/mssql"
	"github.com/sqlmw/go-sql-middleware/rows"
	"github.com/sqlmw/go-sql-middleware/value"
)

// NewMSSQLPool builds the MSSQL Pool (spec §6.1 "Pool::new_mssql"). See
// NewPostgresPool's doc comment for why this adapter layer exists.
func NewMSSQLPool(cfg mssql.Config) (Pool, error) {
	p, err := mssql.NewPool(cfg)
	if err != nil {
		return nil, err
	}
	return msPool{p}, nil
}

type msPool struct{ p *mssql.Pool }

func (a msPool) GetConnection(ctx context.Context) (ConnectionWrapper, error) {
	w, err := a.p.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	return msConn{w}, nil
}

func (a msPool) Close() error    { return a.p.Close() }
func (a msPool) Backend() string { return a.p.Backend() }

type msConn struct{ w *mssql.ConnectionWrapper }

func (a msConn) Query(sql string) QueryBuilder { return msQuery{a.w.Query(sql)} }

func (a msConn) ExecuteBatch(ctx context.Context, sql string) error {
	return a.w.ExecuteBatch(ctx, sql)
}

func (a msConn) Begin(ctx context.Context) (Tx, error) {
	tx, err := a.w.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return msTx{tx}, nil
}

func (a msConn) Close() error { return a.w.Close() }

type msTx struct{ tx *mssql.Tx }

func (a msTx) Prepare(ctx context.Context, sql string) (Prepared, error) {
	p, err := a.tx.Prepare(ctx, sql)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (a msTx) Query(sql string) QueryBuilder   { return msQuery{a.tx.Query(sql)} }
func (a msTx) Commit(ctx context.Context) error   { return a.tx.Commit(ctx) }
func (a msTx) Rollback(ctx context.Context) error { return a.tx.Rollback(ctx) }

type msQuery struct{ b *mssql.QueryBuilder }

func (a msQuery) Params(params ...value.Value) QueryBuilder {
	a.b.Params(params...)
	return a
}

func (a msQuery) Translation(t Translation) QueryBuilder {
	a.b.Translation(t)
	return a
}

func (a msQuery) Select(ctx context.Context) (*rows.ResultSet, error) { return a.b.Select(ctx) }
func (a msQuery) DML(ctx context.Context) (int64, error)              { return a.b.DML(ctx) }
