//go:build sqlmw_no_postgres

package sqlmw

import (
	"go.uber.org/zap"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/internal/postgres"
)

// NewPostgresPool is the disabled stand-in built when the sqlmw_no_postgres
// tag is set (SPEC_FULL.md "Unimplemented
// build-tag gating"): it returns dberr.Unimplemented without opening a
// pool, and imports internal/postgres only for its Config type and Backend
// name.
func NewPostgresPool(cfg postgres.Config, logger *zap.Logger) (Pool, error) {
	return nil, dberr.Unimplemented(postgres.Backend)
}
