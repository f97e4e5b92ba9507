// Package sqlite implements the SQLite backend on modernc.org/sqlite: a
// pool of worker-owned connections (internal/sqlite/worker), applying
// PRAGMA journal_mode=WAL on open (spec §6.3) and routing every operation
// through its owning worker goroutine (spec §4.5).
package sqlite

import (
	"time"

	"github.com/sqlmw/go-sql-middleware/dberr"
)

const Backend = "sqlite"

// Config is the backend-specific settings record spec §3 names for SQLite:
// a file path (or ":memory:") instead of network credentials, a pool size,
// and the placeholder-translation default (always false in practice, since
// SQLite already speaks ?N natively - spec §4.4 "Target backends that
// already use ?N ... skip translation").
type Config struct {
	Path string `yaml:"path" env:"PATH"`

	// PoolSize is the number of worker-owned connections to maintain.
	PoolSize int `yaml:"pool_size" env:"POOL_SIZE" default:"4"`

	// TranslatePlaceholders defaults to false: SQLite's native placeholder
	// syntax is already ?N, so translation is a no-op skip per spec §4.4.
	TranslatePlaceholders bool `yaml:"translate_placeholders" env:"TRANSLATE_PLACEHOLDERS" default:"false"`

	// PromoteTextColumns opts into the deterministic TEXT->Timestamp/JSON
	// promotion spec §4.3 point 3 allows for SQLite/Turso/libSQL result
	// builders. Off by default, matching the spec's "opt-in per backend".
	PromoteTextColumns bool `yaml:"promote_text_columns" env:"PROMOTE_TEXT_COLUMNS" default:"false"`

	// HealthCheckInterval is how often the pool sweeps its idle workers for
	// ones a panic quarantined since their last checkout, replacing them
	// proactively instead of waiting for the next GetConnection. Zero
	// disables the sweep.
	HealthCheckInterval time.Duration `yaml:"health_check_interval" env:"HEALTH_CHECK_INTERVAL" default:"30s"`
}

func (c *Config) Validate() error {
	if c.Path == "" {
		return dberr.Config(Backend, nil, "path must be set")
	}
	if c.PoolSize <= 0 {
		return dberr.Config(Backend, nil, "pool_size must be positive")
	}
	return nil
}
