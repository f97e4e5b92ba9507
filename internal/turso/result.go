package turso

import (
	"database/sql"
	"strings"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/rows"
	"github.com/sqlmw/go-sql-middleware/value"
)

// buildResultSet implements spec §4.3 for Turso/libSQL, sharing
// internal/sqlite's column-type mapping and opt-in TEXT promotion (spec §4.3
// point 3).
func buildResultSet(sqlRows *sql.Rows, promote bool) (*rows.ResultSet, error) {
	defer sqlRows.Close()

	cols, err := sqlRows.Columns()
	if err != nil {
		return nil, dberr.Execution(Backend, err, "can't read result columns")
	}

	types, err := sqlRows.ColumnTypes()
	if err != nil {
		return nil, dberr.Execution(Backend, err, "can't read result column types")
	}

	builder := rows.NewBuilder(cols)
	scanDest := make([]any, len(cols))
	for i := range scanDest {
		scanDest[i] = new(any)
	}

	for sqlRows.Next() {
		if err := sqlRows.Scan(scanDest...); err != nil {
			return nil, dberr.Execution(Backend, err, "can't scan result row")
		}

		rowValues := make([]value.Value, len(cols))
		for i, dest := range scanDest {
			rowValues[i] = cellToValue(*dest.(*any), types[i].DatabaseTypeName(), promote)
		}

		if err := builder.Append(rowValues); err != nil {
			return nil, err
		}
	}
	if err := sqlRows.Err(); err != nil {
		return nil, dberr.Execution(Backend, err, "error iterating result rows")
	}

	return builder.Build(), nil
}

func cellToValue(cell any, dbType string, promote bool) value.Value {
	if cell == nil {
		return value.Null()
	}

	switch strings.ToUpper(dbType) {
	case "INTEGER", "INT", "BIGINT":
		return value.Int(asInt64(cell))
	case "REAL", "FLOAT", "DOUBLE":
		return value.Float(asFloat64(cell))
	case "BLOB":
		if b, ok := cell.([]byte); ok {
			return value.Blob(b)
		}
		return value.Blob(nil)
	default:
		s := asString(cell)
		if promote {
			if t, ok := value.LooksLikeTimestamp(s); ok {
				return value.Timestamp(t)
			}
			if j, ok := value.LooksLikeJSON(s); ok {
				return value.JSON(j)
			}
		}
		return value.Text(s)
	}
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case []byte:
		i, _ := value.ParseIntStrict(string(n))
		return i
	default:
		return 0
	}
}

func asFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	default:
		return 0
	}
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return ""
	}
}
