//go:build sqlmw_no_turso

package sqlmw

import (
	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/internal/turso"
)

func NewTursoPool(cfg turso.Config) (Pool, error) {
	return nil, dberr.Unimplemented(turso.Backend)
}
