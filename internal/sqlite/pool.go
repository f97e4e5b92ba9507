package sqlite

import (
	"context"
	"database/sql"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/internal/sqlite/worker"
	"github.com/sqlmw/go-sql-middleware/periodic"
)

// Pool is the SQLite backend's Pool (spec §4.6/§4.7): a fixed-size free
// list of worker.Worker, each pinned to its own single-connection
// *sql.DB/*sql.Conn pair, following the free-list-channel pattern of
// db-pool.go's single-writer/multi-reader connection pool (one channel
// supplies exclusive handles; returning a handle is a channel send),
// generalized here to return a whole worker rather than a bare *sql.Conn.
type Pool struct {
	cfg     Config
	free    chan *worker.Worker
	mu      sync.Mutex
	workers []*worker.Worker
	health  periodic.Stopper
}

// NewPool opens cfg.PoolSize worker-owned connections up front - SQLite
// connections are cheap and opening them lazily would complicate the free
// list, unlike Postgres/MSSQL/Turso's network pools.
func NewPool(cfg Config) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pool{cfg: cfg, free: make(chan *worker.Worker, cfg.PoolSize)}

	for i := 0; i < cfg.PoolSize; i++ {
		w, err := openWorker(cfg.Path)
		if err != nil {
			_ = p.Close()
			return nil, err
		}
		p.trackWorker(w)
		p.free <- w
	}

	if cfg.HealthCheckInterval > 0 {
		p.health = periodic.Start(context.Background(), cfg.HealthCheckInterval, func(periodic.Tick) {
			p.reapBroken()
		})
	}

	return p, nil
}

// reapBroken drains the idle free list, replacing any worker a panic
// quarantined since it was last checked out, and puts everything back.
// Workers currently checked out by a caller are untouched - GetConnection
// already replaces those lazily on their next return trip through here.
func (p *Pool) reapBroken() {
	n := len(p.free)
	for i := 0; i < n; i++ {
		select {
		case w := <-p.free:
			if w.Broken() {
				if replacement, err := openWorker(p.cfg.Path); err == nil {
					p.trackWorker(replacement)
					_ = w.Shutdown()
					w = replacement
				}
			}
			p.free <- w
		default:
			return
		}
	}
}

func openWorker(path string) (*worker.Worker, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, dberr.Connection(Backend, err, "can't open sqlite database")
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	conn, err := db.Conn(context.Background())
	if err != nil {
		return nil, dberr.Connection(Backend, err, "can't open sqlite connection")
	}

	// Best-effort per spec §6.3: WAL mode is a pragma, not a contract - a
	// failure here (e.g. read-only filesystem) does not fail pool startup.
	_, _ = conn.ExecContext(context.Background(), "PRAGMA journal_mode=WAL")

	return worker.New(conn), nil
}

func (p *Pool) trackWorker(w *worker.Worker) {
	p.mu.Lock()
	p.workers = append(p.workers, w)
	p.mu.Unlock()
}

func (p *Pool) Backend() string { return Backend }

// GetConnection checks out the next free worker (spec §4.7). This blocks
// until a worker is available or ctx is done, rather than spawning a new
// one, since the pool size is fixed up front.
func (p *Pool) GetConnection(ctx context.Context) (*ConnectionWrapper, error) {
	select {
	case w, ok := <-p.free:
		if !ok {
			return nil, dberr.Connection(Backend, nil, "pool is closed")
		}
		if w.Broken() {
			// Spec §4.6: a broken connection is never returned to the
			// pool; replace it with a fresh worker before handing it out.
			replacement, err := openWorker(p.cfg.Path)
			if err != nil {
				return nil, err
			}
			p.trackWorker(replacement)
			w = replacement
		}
		return &ConnectionWrapper{pool: p, w: w, translateDefault: p.cfg.TranslatePlaceholders}, nil
	case <-ctx.Done():
		return nil, dberr.Connection(Backend, ctx.Err(), "timed out waiting for a free sqlite worker")
	}
}

// release returns w to the free list, called by ConnectionWrapper.Close.
func (p *Pool) release(w *worker.Worker) {
	select {
	case p.free <- w:
	default:
		// Free list full - should not happen since exactly PoolSize
		// workers are ever checked out, but don't block a Close() on it.
	}
}

func (p *Pool) Close() error {
	if p.health != nil {
		p.health.Stop()
	}
	close(p.free)

	p.mu.Lock()
	workers := p.workers
	p.mu.Unlock()

	for _, w := range workers {
		if err := w.Shutdown(); err != nil {
			return dberr.Pool(Backend, err, "can't shut down sqlite worker")
		}
	}
	return nil
}
