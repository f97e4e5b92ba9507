package postgres

import (
	"encoding/json"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/value"
)

// columnType is the server-declared column type a param must narrow to,
// the way spec §4.2 requires for Postgres integer binding. Callers that
// don't know the column type (the common case - lib/pq infers OIDs from the
// query itself) pass columnTypeUnspecified and get the natural int64/
// float64/string/bool/[]byte/nil mapping lib/pq already knows how to bind.
type columnType int

const (
	columnTypeUnspecified columnType = iota
	columnTypeInt2
	columnTypeInt4
	columnTypeInt8
)

// convertParam maps a value.Value to the native parameter carrier
// database/sql/driver expects from a lib/pq bind, per spec §4.2's
// Postgres rules: INT2/INT4/INT8 narrowing with a typed execution error
// on overflow (never silent truncation), naive timestamp, JSON/JSONB as
// text, BYTEA as []byte, typed-null as untyped nil (lib/pq's placeholder
// already carries the column's static type from the prepared statement).
func convertParam(v value.Value, ct columnType) (any, error) {
	if v.IsNull() {
		return nil, nil
	}

	switch v.Kind() {
	case value.KindInt:
		i, _ := v.AsInt()
		switch ct {
		case columnTypeInt2:
			n, ok := value.NarrowToInt2(i)
			if !ok {
				return nil, dberr.Executionf(Backend, nil,
					"integer %d overflows INT2 column", i)
			}
			return n, nil
		case columnTypeInt4:
			n, ok := value.NarrowToInt4(i)
			if !ok {
				return nil, dberr.Executionf(Backend, nil,
					"integer %d overflows INT4 column", i)
			}
			return n, nil
		default:
			return i, nil
		}
	case value.KindFloat:
		f, _ := v.AsFloat()
		return f, nil
	case value.KindText:
		s, _ := v.AsText()
		return s, nil
	case value.KindBool:
		b, _ := v.AsBool()
		return b, nil
	case value.KindTimestamp:
		t, _ := v.AsTimestamp()
		return t, nil
	case value.KindBlob:
		b, _ := v.AsBlob()
		return b, nil
	case value.KindJSON:
		j, _ := v.AsJSON()
		enc, err := json.Marshal(j)
		if err != nil {
			return nil, dberr.Parameter(Backend, "can't marshal JSON parameter: "+err.Error())
		}
		return string(enc), nil
	default:
		return nil, dberr.Parameter(Backend, "unsupported value kind "+v.Kind().String())
	}
}

// convertParams converts a full parameter vector with unspecified column
// types - this package never learns the server's declared types for ad-hoc
// queries (that would require a full Describe round trip lib/pq's
// database/sql wrapping doesn't expose), so INT2/INT4 narrowing is only
// exercised when convertParam is called directly with a known columnType.
func convertParams(params []value.Value) ([]any, error) {
	out := make([]any, len(params))
	for i, p := range params {
		converted, err := convertParam(p, columnTypeUnspecified)
		if err != nil {
			return nil, err
		}
		out[i] = converted
	}
	return out, nil
}
