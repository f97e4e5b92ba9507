package mssql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/denisenkom/go-mssqldb"

	"github.com/sqlmw/go-sql-middleware/dberr"
)

// Pool is the MSSQL backend's Pool (spec §4.6/§4.7), a thin wrapper around
// database/sql's own pool - go-mssqldb already handles reconnection and
// liveness internally, so there is no retryConnector here the way
// internal/postgres needs one for lib/pq.
type Pool struct {
	db *sql.DB
}

func NewPool(cfg Config) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlserver", cfg.DSN())
	if err != nil {
		return nil, dberr.Connection(Backend, err, "can't open mssql pool")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	return &Pool{db: db}, nil
}

func (p *Pool) Backend() string { return Backend }

// GetConnection checks out a connection and probes it with a liveness query
// (spec §4.6 is_valid), discarding it on failure rather than returning a
// connection database/sql believes is open but the server has dropped.
func (p *Pool) GetConnection(ctx context.Context) (*ConnectionWrapper, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, dberr.Connection(Backend, err, "can't check out mssql connection")
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, dberr.Connection(Backend, err, "mssql connection failed liveness check")
	}

	return &ConnectionWrapper{conn: conn}, nil
}

func (p *Pool) Close() error {
	if err := p.db.Close(); err != nil {
		return dberr.Pool(Backend, err, "can't close mssql pool")
	}
	return nil
}
