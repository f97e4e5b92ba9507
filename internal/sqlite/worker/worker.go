// Package worker implements the dedicated-goroutine-per-connection model
// spec §4.5/§9 describes for SQLite: rusqlite connections and their compiled
// statements are thread-affine, so the middleware pins each connection to
// one goroutine and funnels every operation through a FIFO command channel
// with one-shot reply channels, rather than calling the driver directly
// from arbitrary caller goroutines.
//
// modernc.org/sqlite is a pure-Go driver with no such thread-affinity
// requirement, so this package's worker goroutine is not load-bearing for
// correctness the way rusqlite's OS-thread pinning is - it is kept anyway
// for architectural fidelity to spec §4.5/§9's design, and because it gives
// the panic-quarantine and FIFO-ordering behavior spec §8.4 scenario 6 and
// §5 "ordering guarantees" test for free, the same way the teacher's
// database package never had to model since MySQL/Postgres have no
// equivalent constraint.
package worker

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/sqlmw/go-sql-middleware/dberr"
)

const backendName = "sqlite"

// command is one unit of work submitted to a Worker's FIFO channel.
type command struct {
	fn    func() (any, error)
	reply chan result
}

type result struct {
	val any
	err error
}

// Worker owns exactly one *sql.Conn and runs every operation against it on
// a single goroutine, draining its command channel in FIFO order (spec
// §4.5/§5 "ordering guarantees" point (d)).
type Worker struct {
	conn *sql.Conn

	cmds   chan command
	done   chan struct{}
	broken atomic.Bool
	inTx   atomic.Bool
	closed atomic.Bool
}

// New spawns a Worker's goroutine over the given connection. The caller
// retains ownership of closing conn; Worker.Shutdown does that.
func New(conn *sql.Conn) *Worker {
	w := &Worker{
		conn: conn,
		cmds: make(chan command, 16),
		done: make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *Worker) run() {
	defer close(w.done)

	for cmd := range w.cmds {
		w.runOne(cmd)
	}
}

// runOne executes a single command with panic quarantine: a panic is
// caught and marks the worker broken. The goroutine does not exit; it keeps
// draining its queue until Shutdown, while submit refuses every later
// command on a broken worker.
func (w *Worker) runOne(cmd command) {
	defer func() {
		if r := recover(); r != nil {
			w.broken.Store(true)
			select {
			case cmd.reply <- result{err: dberr.Executionf(backendName, nil, "worker panicked: %v", r)}:
			default:
			}
		}
	}()

	val, err := cmd.fn()
	select {
	case cmd.reply <- result{val: val, err: err}:
	default:
		// The caller's oneshot receiver was dropped (spec §4.5: "the
		// response is discarded; no state change is retried").
	}
}

// Broken reports whether this worker has quarantined itself after a panic
// (spec §4.6 has_broken).
func (w *Worker) Broken() bool { return w.broken.Load() }

// MarkBroken quarantines the worker the same way a panic does (spec §4.8
// "on exhaustion, mark the connection broken"), for callers outside this
// package that exhaust a retry budget of their own - the drop-time rollback
// retry loop in internal/sqlite's Tx, in particular.
func (w *Worker) MarkBroken() { w.broken.Store(true) }

// InTx reports whether a transaction is currently active on this worker.
func (w *Worker) InTx() bool { return w.inTx.Load() }

// SetInTx flips the transaction-active flag; called by Begin/Commit/Rollback.
func (w *Worker) SetInTx(v bool) { w.inTx.Store(v) }

// submit enqueues fn and waits for its reply or ctx cancellation. If ctx is
// canceled first, the reply channel is abandoned (buffered, size 1) so
// runOne's non-blocking send never blocks the worker goroutine.
func (w *Worker) submit(ctx context.Context, fn func() (any, error)) (any, error) {
	if w.broken.Load() {
		return nil, dberr.Execution(backendName, nil, "worker receive error: connection is broken")
	}
	if w.closed.Load() {
		return nil, dberr.Execution(backendName, nil, "worker receive error: worker has shut down")
	}

	reply := make(chan result, 1)
	select {
	case w.cmds <- command{fn: fn, reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-w.done:
		return nil, dberr.Execution(backendName, nil, "worker receive error: worker has shut down")
	}

	select {
	case r := <-reply:
		return r.val, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SubmitAutocommit runs fn on the worker goroutine, refusing it while a
// transaction is active (spec §4.5 "non-transaction commands received ...
// are refused with an execution error instead of being silently
// interleaved").
func (w *Worker) SubmitAutocommit(ctx context.Context, fn func() (any, error)) (any, error) {
	if w.inTx.Load() {
		return nil, dberr.Execution(backendName, nil, "worker refused autocommit command: a transaction is active")
	}
	return w.submit(ctx, fn)
}

// SubmitTx runs fn on the worker goroutine; callers are responsible for
// having set InTx before issuing transaction-scoped commands.
func (w *Worker) SubmitTx(ctx context.Context, fn func() (any, error)) (any, error) {
	return w.submit(ctx, fn)
}

// Conn exposes the underlying *sql.Conn for building database/sql
// statements from within a submitted fn - callers must only touch it from
// inside a fn passed to SubmitAutocommit/SubmitTx, never directly.
func (w *Worker) Conn() *sql.Conn { return w.conn }

// Shutdown stops accepting new commands and waits for the goroutine to
// drain its queue and exit.
func (w *Worker) Shutdown() error {
	if !w.closed.CompareAndSwap(false, true) {
		<-w.done
		return nil
	}
	close(w.cmds)
	<-w.done
	return w.conn.Close()
}
