package turso

import (
	"context"
	"database/sql"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/sqlmw/go-sql-middleware/dberr"
)

// Pool is the Turso/libSQL backend's Pool (spec §4.6/§4.7). go-libsql
// registers a database/sql driver, so - unlike internal/sqlite, which
// routes every operation through its own hand-rolled worker-goroutine pool
// (internal/sqlite/worker) - this backend leans on database/sql's own pool
// the way internal/postgres and internal/mssql do.
type Pool struct {
	cfg Config
	db  *sql.DB
}

func NewPool(cfg Config) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	connStr := cfg.URL
	if cfg.AuthToken != "" {
		connStr += "?authToken=" + cfg.AuthToken
	}

	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, dberr.Connection(Backend, err, "can't open turso pool")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	return &Pool{cfg: cfg, db: db}, nil
}

func (p *Pool) Backend() string { return Backend }

func (p *Pool) GetConnection(ctx context.Context) (*ConnectionWrapper, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, dberr.Connection(Backend, err, "can't check out turso connection")
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, dberr.Connection(Backend, err, "turso connection failed liveness check")
	}

	return &ConnectionWrapper{conn: conn, translateDefault: p.cfg.TranslatePlaceholders, promote: p.cfg.PromoteTextColumns}, nil
}

func (p *Pool) Close() error {
	if err := p.db.Close(); err != nil {
		return dberr.Pool(Backend, err, "can't close turso pool")
	}
	return nil
}
