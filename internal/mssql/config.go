// Package mssql implements the MSSQL backend on
// github.com/denisenkom/go-mssqldb: a *sql.DB-backed pool with the two
// simplifications spec §4.8/§4.9 call out for this backend - no drop-time
// rollback, and no true prepared-statement handle (the wrapper just stores
// SQL text and re-binds on every call).
package mssql

import (
	"net/url"
	"strconv"

	"github.com/sqlmw/go-sql-middleware/dberr"
)

const Backend = "mssql"

// Config is the backend-specific settings record spec §3 names for MSSQL.
// Placeholders are never translated for this backend (spec §4.4: "a
// different native form (MSSQL @pN) skip[s] translation"), so there is no
// TranslatePlaceholders field here.
type Config struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT" default:"1433"`
	Database string `yaml:"database" env:"DATABASE"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`

	MaxOpenConns    int `yaml:"max_open_conns" env:"MAX_OPEN_CONNS" default:"16"`
	MaxIdleConns    int `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS" default:"8"`
	ConnMaxLifetime int `yaml:"conn_max_lifetime_seconds" env:"CONN_MAX_LIFETIME_SECONDS"`
}

func (c *Config) Validate() error {
	if c.Host == "" {
		return dberr.Config(Backend, nil, "host must be set")
	}
	if c.Database == "" {
		return dberr.Config(Backend, nil, "database must be set")
	}
	return nil
}

// DSN builds the sqlserver:// connection string go-mssqldb expects.
func (c *Config) DSN() string {
	u := &url.URL{
		Scheme: "sqlserver",
		Host:   c.Host + ":" + strconv.Itoa(c.Port),
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}

	q := url.Values{}
	q.Set("database", c.Database)
	u.RawQuery = q.Encode()

	return u.String()
}
