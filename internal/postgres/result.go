package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/rows"
	"github.com/sqlmw/go-sql-middleware/value"
)

// buildResultSet implements spec §4.3's per-backend result builder: extract
// the column name list once, then map each cell to a value.Value variant by
// the backend's declared column type.
func buildResultSet(sqlRows *sql.Rows) (*rows.ResultSet, error) {
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
			rowValues[i] = cellToValue(*dest.(*any), types[i].DatabaseTypeName())
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

// cellToValue maps a single lib/pq-scanned cell to a value.Value variant by
// the server-declared column type name (spec §4.3 point 2).
func cellToValue(cell any, dbType string) value.Value {
	if cell == nil {
		return value.Null()
	}

	switch strings.ToUpper(dbType) {
	case "INT2", "INT4", "INT8", "SMALLINT", "INTEGER", "BIGINT", "OID":
		return value.Int(asInt64(cell))
	case "FLOAT4", "FLOAT8", "NUMERIC", "DECIMAL", "REAL", "DOUBLE PRECISION":
		return value.Float(asFloat64(cell))
	case "BOOL", "BOOLEAN":
		b, _ := cell.(bool)
		return value.Bool(b)
	case "TIMESTAMP", "TIMESTAMPTZ", "DATE":
		if t, ok := cell.(time.Time); ok {
			return value.Timestamp(t)
		}
		return value.Text(asString(cell))
	case "JSON", "JSONB":
		return value.Text(asString(cell))
	case "BYTEA":
		if b, ok := cell.([]byte); ok {
			return value.Blob(b)
		}
		return value.Blob(nil)
	default:
		return value.Text(asString(cell))
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
	case []byte:
		var f float64
		_, _ = fmt.Sscanf(string(n), "%g", &f)
		return f
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
