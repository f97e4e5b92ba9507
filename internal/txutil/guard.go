// Package txutil implements the drop-time rollback machinery spec §4.8/§9
// describes, shared across backends. Go has no destructors, so "drop
// without completion" is approximated with runtime.SetFinalizer - the same
// technique the standard library's os.File uses to catch forgotten Close
// calls. DisableDropRollback exists solely so regression tests can
// reproduce the legacy behavior of a transaction handle that silently keeps
// its BEGIN open when dropped (spec §4.8 "test-only bypass flag"); it is
// process-wide and not part of the public API.
package txutil

import (
	"runtime"
	"sync/atomic"

	"github.com/sqlmw/go-sql-middleware/com"
)

// dropRollbackDisabled is the one process-wide piece of global state spec §9
// allows: a test hook to reproduce legacy drop-without-rollback behavior.
var dropRollbackDisabled com.Atomic[bool]

// DisableDropRollback suppresses every backend's best-effort drop-time
// rollback until re-enabled. Not part of the public API; tests only.
func DisableDropRollback(disabled bool) {
	dropRollbackDisabled.Store(disabled)
}

func dropRollbackSuppressed() bool {
	v, ok := dropRollbackDisabled.Load()
	return ok && v
}

// Guard tracks whether a transaction handle completed (Commit or Rollback)
// before it was dropped, and arms a finalizer that performs a best-effort
// rollback otherwise.
type Guard struct {
	completed atomic.Bool
}

// Completed reports whether Commit/Rollback already ran.
func (g *Guard) Completed() bool {
	return g.completed.Load()
}

// MarkCompleted records that Commit or Rollback ran, so the finalizer
// becomes a no-op.
func (g *Guard) MarkCompleted() {
	g.completed.Store(true)
}

// Arm registers a finalizer on owner (typically the Tx struct embedding
// this Guard) that calls onDrop if the transaction was never completed and
// the test-only bypass is not set. onDrop must be safe to call from an
// arbitrary goroutine with no surrounding context - it receives a fresh
// context.Background()-rooted call budget from the backend.
func (g *Guard) Arm(owner any, onDrop func()) {
	runtime.SetFinalizer(owner, func(any) {
		if dropRollbackSuppressed() {
			return
		}
		if g.completed.Load() {
			return
		}
		onDrop()
	})
}

// Disarm removes the finalizer, used once Close/Commit/Rollback has already
// run synchronously so GC does not need to do anything.
func Disarm(owner any) {
	runtime.SetFinalizer(owner, nil)
}
