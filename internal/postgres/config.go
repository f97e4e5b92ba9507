// Package postgres implements the PostgreSQL backend: a lib/pq-based pool,
// connection wrapper, transaction engine and prepared statements satisfying
// the sqlmw contract structurally, grounded on the teacher library's
// database package (db.go's sqlx.Connect/Open pattern, driver.go's
// RetryConnector) generalized from a single hard-coded MySQL/Postgres choice
// to one of four backends.
package postgres

import (
	"fmt"
	"net/url"
	"time"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/placeholder"
)

// Backend is the name this package reports to dberr and logging.
const Backend = "postgres"

// Config is the backend-specific settings record spec §3 "Configuration"
// names: connection endpoint, credentials, pool size, and the per-pool
// default for placeholder translation.
type Config struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT" default:"5432"`
	Database string `yaml:"database" env:"DATABASE"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	SSLMode  string `yaml:"ssl_mode" env:"SSL_MODE" default:"prefer"`

	// MaxOpenConns bounds the pool's live connection count.
	MaxOpenConns int `yaml:"max_open_conns" env:"MAX_OPEN_CONNS" default:"16"`
	// MaxIdleConns bounds the pool's idle connection count.
	MaxIdleConns int `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS" default:"8"`
	// ConnMaxLifetime recycles connections older than this, zero disables it.
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`

	// TranslatePlaceholders is the pool-wide default for the ?N -> $N
	// translation toggle (spec §4.4/§6.1).
	TranslatePlaceholders bool `yaml:"translate_placeholders" env:"TRANSLATE_PLACEHOLDERS" default:"true"`
}

// Validate checks constraints, mirroring the teacher's config.Validate style.
func (c *Config) Validate() error {
	if c.Host == "" {
		return dberr.Config(Backend, nil, "host must be set")
	}
	if c.Database == "" {
		return dberr.Config(Backend, nil, "database must be set")
	}
	return nil
}

// DSN renders the lib/pq connection string.
func (c *Config) DSN() string {
	v := url.Values{}
	v.Set("sslmode", c.SSLMode)

	u := url.URL{
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: v.Encode(),
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}

	return u.String()
}

// placeholderStyle is fixed: Postgres is the translation target spec §4.4
// names, never a source that itself needs skipping.
const placeholderStyle = placeholder.StylePostgres
