// Package bulk implements the streaming bulk insert/upsert path spec.md's
// connection/transaction layer is wrapped in, adapted from
// database/upsert.go's UpsertStreamed and database/optionally.go's
// Upsert.Stream: instead of streaming entities scanned via reflection, it
// streams rows already shaped as []value.Value, so it works identically
// across every backend this module targets.
package bulk

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sqlmw/go-sql-middleware/backoff"
	"github.com/sqlmw/go-sql-middleware/periodic"
	"github.com/sqlmw/go-sql-middleware/retry"
	"github.com/sqlmw/go-sql-middleware/value"
)

// Row is one record flowing through a streamed bulk operation: an ordered
// vector of column values, in the order the caller's Exec callback expects
// (i.e. matching the column list the multi-row statement it builds was
// compiled for).
type Row []value.Value

// Exec runs one bulk statement against a chunk of rows - typically a single
// multi-row "INSERT INTO t (...) VALUES (...), (...), ..." built by the
// caller from a backend's sqlmw.QueryBuilder - and returns the number of
// rows it affected.
type Exec func(ctx context.Context, chunk []Row) (int64, error)

// SplitPolicy decides, for a row about to be appended to the in-progress
// chunk, whether the chunk must be closed and started over first. The
// value.Value analogue of database/upsert.go's splitOnDupId, which forces a
// new chunk whenever the same primary key would appear twice in one
// multi-row statement - on every backend here, a duplicate key inside one
// INSERT/UPSERT is at best undefined and at worst silently drops a row.
type SplitPolicy func(row Row) bool

// NeverSplit is the zero-value SplitPolicy: rows are only split on size.
func NeverSplit(Row) bool { return false }

// Options configures Stream.
type Options struct {
	// ChunkSize caps the number of rows passed to one Exec call. Callers
	// derive this from a statement's placeholder count and their backend's
	// placeholder ceiling, the way database/db.go's BatchSizeByPlaceholders
	// does from MaxPlaceholdersPerStatement.
	ChunkSize int

	// MaxConcurrentChunks bounds how many chunks run through Exec
	// concurrently (database/upsert.go's per-table semaphore). Defaults to
	// 1 (fully sequential) if <= 0.
	MaxConcurrentChunks int64

	// Split is consulted before every row is appended to the in-progress
	// chunk. Defaults to NeverSplit.
	Split SplitPolicy

	// Backoff retries a failing Exec call the way namedBulkExec wraps
	// NamedExecContext in retry.WithBackoff. Defaults to
	// backoff.DefaultBackoff with retry.Retryable.
	Backoff backoff.Backoff

	// StallTimeout aborts the stream if the producer goes this long without
	// sending a row or closing its channel. Zero disables the guard.
	StallTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = 1
	}
	if o.MaxConcurrentChunks <= 0 {
		o.MaxConcurrentChunks = 1
	}
	if o.Split == nil {
		o.Split = NeverSplit
	}
	if o.Backoff == nil {
		o.Backoff = backoff.DefaultBackoff
	}
	return o
}

// Counter is a concurrency-safe rows-affected accumulator, this package's
// analogue of the teacher's com.Counter (database/db.go's Log method logs
// the running total once a streamed operation finishes).
type Counter struct {
	mu    sync.Mutex
	total uint64
}

// Add accumulates n more affected rows.
func (c *Counter) Add(n uint64) {
	c.mu.Lock()
	c.total += n
	c.mu.Unlock()
}

// Total reports the running sum.
func (c *Counter) Total() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Stream chunks rows from the given channel into batches of at most
// opts.ChunkSize (split early by opts.Split), runs exec on each with up to
// opts.MaxConcurrentChunks chunks in flight, and retries a failing exec per
// opts.Backoff. It returns the total rows affected by every chunk that
// completed before the first unretryable error (or ctx cancellation).
func Stream(ctx context.Context, rows <-chan Row, exec Exec, opts Options) (uint64, error) {
	opts = opts.withDefaults()

	g, ctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(opts.MaxConcurrentChunks)

	var windUp func(time.Duration) error
	if opts.StallTimeout > 0 {
		ctx, windUp = periodic.WindUpContext(ctx, opts.StallTimeout)
	}

	chunks := chunk(ctx, rows, opts.ChunkSize, opts.Split, windUp, opts.StallTimeout)

	var counter Counter

	g.Go(func() error {
		for {
			select {
			case c, ok := <-chunks:
				if !ok {
					return ctx.Err()
				}

				if err := sem.Acquire(ctx, 1); err != nil {
					return errors.Wrap(err, "can't acquire bulk concurrency semaphore")
				}

				g.Go(func(c []Row) func() error {
					return func() error {
						defer sem.Release(1)

						return retry.WithBackoff(
							ctx,
							func(ctx context.Context) error {
								affected, err := exec(ctx, c)
								if err != nil {
									return err
								}

								counter.Add(uint64(affected))
								return nil
							},
							retry.Retryable,
							opts.Backoff,
							retry.Settings{},
						)
					}
				}(c))
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	if err := g.Wait(); err != nil {
		return counter.Total(), err
	}
	return counter.Total(), nil
}

// chunk accumulates rows from in into batches of at most size, starting a
// new batch early whenever split reports the in-progress chunk must close
// first. It flushes a trailing partial batch when in closes, and stops
// without flushing (the way com.CopyFirst's forwarder does) once ctx is
// done.
//
// Unlike the teacher's com.Bulk, this has no flush-on-idle - the source for
// that behavior (database/com's bulker_test.go) was never matched by a
// source file in the retrieved pack (see DESIGN.md), so there's nothing to
// ground its exact timing on. Instead, when windUp is non-nil it is called
// after every received row to push the stall deadline periodic.WindUpContext
// manages out by stallTimeout; a producer that goes silent for that long
// cancels ctx and chunk exits through the same ctx.Done() path a caller
// cancellation would take.
func chunk(ctx context.Context, in <-chan Row, size int, split SplitPolicy, windUp func(time.Duration) error, stallTimeout time.Duration) <-chan []Row {
	out := make(chan []Row)

	go func() {
		defer close(out)

		var batch []Row
		flush := func() bool {
			if len(batch) == 0 {
				return true
			}
			select {
			case out <- batch:
				batch = nil
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case row, ok := <-in:
				if !ok {
					flush()
					return
				}
				if windUp != nil {
					_ = windUp(stallTimeout)
				}

				if split(row) {
					if !flush() {
						return
					}
				}

				batch = append(batch, row)
				if len(batch) >= size {
					if !flush() {
						return
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
