package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sqlmw/go-sql-middleware/backoff"
	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/retry"
)

// Pool is the PostgreSQL backend's Pool (spec §4.6/§4.7), wrapping a
// database/sql *sql.DB whose Connector is a retrying one modeled on the
// teacher library's database/driver.go RetryConnector, generalized from a
// MySQL-or-Postgres choice to Postgres specifically.
type Pool struct {
	db      *sql.DB
	cfg     Config
	logger  *zap.Logger
}

// NewPool opens a lazily-connecting pool: the first real connection attempt
// (and every reconnect) goes through retry.WithBackoff via a
// database/sql/driver.Connector wrapper, the way RetryConnector does in the
// teacher library.
func NewPool(cfg Config, logger *zap.Logger) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	connector, err := pq.NewConnector(cfg.DSN())
	if err != nil {
		return nil, dberr.Config(Backend, err, "can't build lib/pq connector")
	}

	retrying := &retryConnector{Connector: connector, logger: logger}
	db := sql.OpenDB(retrying)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &Pool{db: db, cfg: cfg, logger: logger}, nil
}

func (p *Pool) Backend() string { return Backend }

// GetConnection checks out one exclusive physical connection (spec §4.7):
// using sql.(*DB).Conn instead of running queries straight against *sql.DB
// is what lets Begin/Prepare bind to a single backend session.
func (p *Pool) GetConnection(ctx context.Context) (*ConnectionWrapper, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, dberr.Connection(Backend, err, "can't check out a connection")
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, dberr.Connection(Backend, err, "checked-out connection failed liveness probe")
	}

	return &ConnectionWrapper{conn: conn, translateDefault: p.cfg.TranslatePlaceholders}, nil
}

func (p *Pool) Close() error {
	if err := p.db.Close(); err != nil {
		return dberr.Pool(Backend, err, "can't close pool")
	}
	return nil
}

// retryConnector wraps driver.Connector with retry logic, following the
// teacher library's database/driver.go RetryConnector pattern one-for-one
// but bound to this package's retry/backoff imports instead of a
// MySQL-logger side channel.
type retryConnector struct {
	driver.Connector
	logger *zap.Logger
}

func (c *retryConnector) Connect(ctx context.Context) (driver.Conn, error) {
	var conn driver.Conn
	err := retry.WithBackoff(
		ctx,
		func(ctx context.Context) (err error) {
			conn, err = c.Connector.Connect(ctx)
			return err
		},
		shouldRetry,
		backoff.NewExponentialWithJitter(128*time.Millisecond, time.Minute),
		retry.Settings{
			Timeout: retry.DefaultTimeout,
			OnRetryableError: func(elapsed time.Duration, attempt uint64, err, lastErr error) {
				if lastErr == nil || err.Error() != lastErr.Error() {
					c.logger.Warn("can't connect to postgres, retrying", zap.Error(err), zap.Uint64("attempt", attempt))
				}
			},
			OnSuccess: func(elapsed time.Duration, attempt uint64, lastErr error) {
				if attempt > 0 {
					c.logger.Info("reconnected to postgres", zap.Duration("after", elapsed), zap.Uint64("attempts", attempt+1))
				}
			},
		},
	)
	return conn, errors.Wrap(err, "can't connect to postgres")
}

func (c *retryConnector) Driver() driver.Driver {
	return c.Connector.Driver()
}

func shouldRetry(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	return retry.Retryable(err)
}
