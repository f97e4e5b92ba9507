//go:build sqlmw_no_mssql

package sqlmw

import (
	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/internal/mssql"
)

func NewMSSQLPool(cfg mssql.Config) (Pool, error) {
	return nil, dberr.Unimplemented(mssql.Backend)
}
