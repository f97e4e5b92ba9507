//go:build !sqlmw_no_postgres

package sqlmw

import (
	"context"

	"go.uber.org/zap"

	"github.com/sqlmw/go-sql-middleware/internal/postgres"
	"github.com/sqlmw/go-sql-middleware/rows"
	"github.com/sqlmw/go-sql-middleware/value"
)

// NewPostgresPool builds the PostgreSQL Pool (spec §6.1 "Pool::new_postgres").
//
// Backend packages return their own concrete types (e.g. *postgres.Pool)
// rather than this package's interfaces, because Go has no covariant method
// returns: a method declared to return ConnectionWrapper is only satisfied
// by a method that literally returns the ConnectionWrapper interface type,
// not by one returning some concrete type that happens to implement it. The
// thin adapters below, one per backend, are where that conversion happens -
// each wraps a concrete internal/<backend> type and re-exposes it through
// this package's interfaces. This is the only file in the backend's call
// path that imports both sqlmw and internal/postgres.
func NewPostgresPool(cfg postgres.Config, logger *zap.Logger) (Pool, error) {
	p, err := postgres.NewPool(cfg, logger)
	if err != nil {
		return nil, err
	}
	return pgPool{p}, nil
}

type pgPool struct{ p *postgres.Pool }

func (a pgPool) GetConnection(ctx context.Context) (ConnectionWrapper, error) {
	w, err := a.p.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	return pgConn{w}, nil
}

func (a pgPool) Close() error    { return a.p.Close() }
func (a pgPool) Backend() string { return a.p.Backend() }

type pgConn struct{ w *postgres.ConnectionWrapper }

func (a pgConn) Query(sql string) QueryBuilder {
	return pgQuery{a.w.Query(sql)}
}

func (a pgConn) ExecuteBatch(ctx context.Context, sql string) error {
	return a.w.ExecuteBatch(ctx, sql)
}

func (a pgConn) Begin(ctx context.Context) (Tx, error) {
	tx, err := a.w.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return pgTx{tx}, nil
}

func (a pgConn) Close() error { return a.w.Close() }

type pgTx struct{ tx *postgres.Tx }

func (a pgTx) Prepare(ctx context.Context, sql string) (Prepared, error) {
	p, err := a.tx.Prepare(ctx, sql)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (a pgTx) Query(sql string) QueryBuilder { return pgQuery{a.tx.Query(sql)} }
func (a pgTx) Commit(ctx context.Context) error   { return a.tx.Commit(ctx) }
func (a pgTx) Rollback(ctx context.Context) error { return a.tx.Rollback(ctx) }

// pgQuery adapts *postgres.QueryBuilder's fluent methods, which return the
// concrete *postgres.QueryBuilder for in-package chaining, to QueryBuilder's
// interface-typed fluent methods: Params/Translation rewrap the same
// underlying builder so the chain still mutates one instance.
type pgQuery struct{ b *postgres.QueryBuilder }

func (a pgQuery) Params(params ...value.Value) QueryBuilder {
	a.b.Params(params...)
	return a
}

func (a pgQuery) Translation(t Translation) QueryBuilder {
	a.b.Translation(t)
	return a
}

func (a pgQuery) Select(ctx context.Context) (*rows.ResultSet, error) { return a.b.Select(ctx) }
func (a pgQuery) DML(ctx context.Context) (int64, error)              { return a.b.DML(ctx) }
