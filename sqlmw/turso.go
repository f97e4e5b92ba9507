//go:build !sqlmw_no_turso

package sqlmw

import (
	"context"

	"github.com/sqlmw/go-sql-middleware/internal/turso"
	"github.com/sqlmw/go-sql-middleware/rows"
	"github.com/sqlmw/go-sql-middleware/value"
)

// NewTursoPool builds the Turso/libSQL Pool (spec §6.1 "Pool::new_turso").
// See NewPostgresPool's doc comment for why this adapter layer exists.
func NewTursoPool(cfg turso.Config) (Pool, error) {
	p, err := turso.NewPool(cfg)
	if err != nil {
		return nil, err
	}
	return tursoPool{p}, nil
}

type tursoPool struct{ p *turso.Pool }

func (a tursoPool) GetConnection(ctx context.Context) (ConnectionWrapper, error) {
	w, err := a.p.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	return tursoConn{w}, nil
}

func (a tursoPool) Close() error    { return a.p.Close() }
func (a tursoPool) Backend() string { return a.p.Backend() }

type tursoConn struct{ w *turso.ConnectionWrapper }

func (a tursoConn) Query(sql string) QueryBuilder { return tursoQuery{a.w.Query(sql)} }

func (a tursoConn) ExecuteBatch(ctx context.Context, sql string) error {
	return a.w.ExecuteBatch(ctx, sql)
}

func (a tursoConn) Begin(ctx context.Context) (Tx, error) {
	tx, err := a.w.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tursoTx{tx}, nil
}

func (a tursoConn) Close() error { return a.w.Close() }

type tursoTx struct{ tx *turso.Tx }

func (a tursoTx) Prepare(ctx context.Context, sql string) (Prepared, error) {
	p, err := a.tx.Prepare(ctx, sql)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (a tursoTx) Query(sql string) QueryBuilder   { return tursoQuery{a.tx.Query(sql)} }
func (a tursoTx) Commit(ctx context.Context) error   { return a.tx.Commit(ctx) }
func (a tursoTx) Rollback(ctx context.Context) error { return a.tx.Rollback(ctx) }

type tursoQuery struct{ b *turso.QueryBuilder }

func (a tursoQuery) Params(params ...value.Value) QueryBuilder {
	a.b.Params(params...)
	return a
}

func (a tursoQuery) Translation(t Translation) QueryBuilder {
	a.b.Translation(t)
	return a
}

func (a tursoQuery) Select(ctx context.Context) (*rows.ResultSet, error) { return a.b.Select(ctx) }
func (a tursoQuery) DML(ctx context.Context) (int64, error)              { return a.b.DML(ctx) }
