// Package turso implements the Turso/libSQL backend on
// github.com/tursodatabase/go-libsql: a database/sql-backed pool whose
// prepared statements are guarded by an internal mutex (spec §5
// "Prepared statements are ... guarded by an internal mutex (Turso) so that
// clones can be used concurrently on the same connection"), and whose
// drop-time rollback is fire-and-forget like Postgres (spec §4.8).
package turso

import (
	"github.com/sqlmw/go-sql-middleware/dberr"
)

const Backend = "turso"

// Config is the backend-specific settings record spec §3 names for Turso:
// a database URL (local file, or libsql:// for a remote/embedded-replica
// database) plus an optional auth token, and the placeholder-translation
// default - Turso speaks SQLite's native ?N syntax, so this defaults to
// false like internal/sqlite's Config.
type Config struct {
	URL       string `yaml:"url" env:"URL"`
	AuthToken string `yaml:"auth_token" env:"AUTH_TOKEN"`

	MaxOpenConns int `yaml:"max_open_conns" env:"MAX_OPEN_CONNS" default:"8"`
	MaxIdleConns int `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS" default:"4"`

	TranslatePlaceholders bool `yaml:"translate_placeholders" env:"TRANSLATE_PLACEHOLDERS" default:"false"`
	PromoteTextColumns    bool `yaml:"promote_text_columns" env:"PROMOTE_TEXT_COLUMNS" default:"false"`
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return dberr.Config(Backend, nil, "url must be set")
	}
	return nil
}
