//go:build sqlmw_no_sqlite

package sqlmw

import (
	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/internal/sqlite"
)

func NewSQLitePool(cfg sqlite.Config) (Pool, error) {
	return nil, dberr.Unimplemented(sqlite.Backend)
}
