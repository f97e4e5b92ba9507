package turso

import (
	"context"
	"database/sql"
	"sync"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/rows"
	"github.com/sqlmw/go-sql-middleware/value"
)

// Prepared implements spec §4.9's Turso row: the compiled statement is
// guarded by a mutex so clones of the handle can share it across
// concurrently-running tasks while only one driver call runs at a time
// (spec §5 "guarded by an internal mutex (Turso) so that clones can be
// used concurrently on the same connection").
type Prepared struct {
	mu    sync.Mutex
	stmt  *sql.Stmt
	owner *Tx
	sql   string
}

func newPrepared(stmt *sql.Stmt, owner *Tx, sqlText string) *Prepared {
	return &Prepared{stmt: stmt, owner: owner, sql: sqlText}
}

func (p *Prepared) checkAlive() error {
	if p.owner != nil && p.owner.guard.Completed() {
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

	p.mu.Lock()
	sqlRows, err := p.stmt.QueryContext(ctx, args...)
	p.mu.Unlock()
	if err != nil {
		return nil, dberr.Execution(Backend, err, "can't execute prepared query")
	}

	promote := false
	if p.owner != nil {
		promote = p.owner.promote
	}
	return buildResultSet(sqlRows, promote)
}

func (p *Prepared) Execute(ctx context.Context, params ...value.Value) (int64, error) {
	if err := p.checkAlive(); err != nil {
		return 0, err
	}

	args, err := convertParams(params)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	result, err := p.stmt.ExecContext(ctx, args...)
	p.mu.Unlock()
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
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stmt.Close()
}
