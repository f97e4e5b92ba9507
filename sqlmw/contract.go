// Package sqlmw is the module's import root: the uniform middleware
// contract spec §6.1 describes. It declares the interfaces a backend
// package's concrete types satisfy structurally (no backend package
// imports sqlmw, avoiding an import cycle while still getting Go's
// ordinary structural interface satisfaction), plus the
// NewPostgresPool/NewSQLitePool/NewMSSQLPool/NewTursoPool entry points.
//
// ConnectionWrapper and Tx are themselves the typestate encoding spec §4.11
// and §9 describe: Go has no way to specialize a method to one
// instantiation of a generic receiver, so - as the spec's design notes
// anticipate for languages without phantom generics - the compile-time
// guarantee is obtained with two distinct named types with disjoint method
// sets (Idle vs InTx) instead of a single generic Typed[State] type. Calling
// Begin on a Tx, or Commit on a ConnectionWrapper, is a compile error, not a
// runtime check.
package sqlmw

import (
	"context"

	"github.com/sqlmw/go-sql-middleware/placeholder"
	"github.com/sqlmw/go-sql-middleware/rows"
	"github.com/sqlmw/go-sql-middleware/value"
)

// Translation is the per-call placeholder-translation override (spec
// glossary: "Translation toggle"), an alias of placeholder.Toggle so callers
// only need to import this package.
type Translation = placeholder.Toggle

const (
	TranslationDefault = placeholder.ToggleDefault
	TranslationForceOn = placeholder.ToggleForceOn
	TranslationForceOff = placeholder.ToggleForceOff
)

// Pool is the tagged-union-over-backends abstraction of spec §3/§4.7. A
// Pool is immutable after construction; connection slots are acquired and
// released through ConnectionWrapper only.
type Pool interface {
	// GetConnection checks out a connection wrapper (spec §6.1,
	// suspension point per spec §5).
	GetConnection(ctx context.Context) (ConnectionWrapper, error)

	// Close shuts the pool down, closing idle connections and (for
	// SQLite) stopping every worker goroutine.
	Close() error

	// Backend names the backend this pool was constructed for, e.g. for
	// logging and error tagging.
	Backend() string
}

// ConnectionWrapper holds exactly one pooled connection together with the
// pool-default translation flag (spec §3/§4.7). It is the Idle typestate:
// every operation runs in autocommit mode. Closing it (spec calls this
// "drop") returns the connection to its pool.
type ConnectionWrapper interface {
	// Query starts a fluent query builder (spec §4.10/§6.1).
	Query(sql string) QueryBuilder

	// ExecuteBatch runs a semicolon-separated batch. PostgreSQL (simple
	// query protocol) and SQLite (explicit BEGIN/COMMIT) run it as one
	// transaction; MSSQL and Turso send it as given, without wrapping it
	// in a transaction.
	ExecuteBatch(ctx context.Context, sql string) error

	// Begin transitions Idle -> InTx, issuing BEGIN (spec §4.8).
	Begin(ctx context.Context) (Tx, error)

	// Close returns the connection to its pool (spec §3 "dropping it
	// returns the connection to the pool").
	Close() error
}

// Tx is the InTx typestate: a transaction handle bound to the connection it
// was begun on (spec §3/§4.8). Exactly one Tx can be active per connection.
type Tx interface {
	// Prepare compiles sql against this transaction; the resulting
	// Prepared is invalid after Commit or Rollback (spec §4.9, §8.1).
	Prepare(ctx context.Context, sql string) (Prepared, error)

	// Query starts a fluent query builder scoped to this transaction.
	Query(sql string) QueryBuilder

	// Commit issues COMMIT and transitions InTx -> NoTx, marking the
	// handle completed (spec §4.8).
	Commit(ctx context.Context) error

	// Rollback issues ROLLBACK and transitions InTx -> NoTx, marking the
	// handle completed (spec §4.8).
	Rollback(ctx context.Context) error
}

// Prepared is a compiled statement handle bound to the Tx it was prepared
// on (spec §3/§4.9). Using it after that Tx commits or rolls back yields
// dberr.KindExecution. Only Tx has a Prepare method: ConnectionWrapper
// offers no autocommit Prepared.
type Prepared interface {
	Query(ctx context.Context, params ...value.Value) (*rows.ResultSet, error)
	Execute(ctx context.Context, params ...value.Value) (int64, error)
	Close() error
}

// QueryBuilder records a SQL string, an optional parameter slice and an
// optional translation override, dispatching to the backend's execute-select
// or execute-dml path on a terminal call (spec §4.10).
type QueryBuilder interface {
	// Params attaches the parameter vector for this invocation.
	Params(params ...value.Value) QueryBuilder

	// Translation overrides the pool default for this invocation only.
	Translation(t Translation) QueryBuilder

	// Select is a terminal method returning a materialized ResultSet.
	Select(ctx context.Context) (*rows.ResultSet, error)

	// DML is a terminal method returning the affected-row count.
	DML(ctx context.Context) (int64, error)
}
