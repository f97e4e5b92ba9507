package sqlite

import (
	"encoding/json"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/value"
)

// convertParam maps a value.Value to its SQLite-family native parameter
// carrier per spec §4.2: integers as INTEGER, floats as REAL, text as TEXT,
// booleans as INTEGER 0/1, timestamps as TEXT in "%F %T%.f", JSON as
// serialized TEXT, blobs as BLOB.
func convertParam(v value.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}

	switch v.Kind() {
	case value.KindInt:
		i, _ := v.AsInt()
		return i, nil
	case value.KindFloat:
		f, _ := v.AsFloat()
		return f, nil
	case value.KindText:
		s, _ := v.AsText()
		return s, nil
	case value.KindBool:
		b, _ := v.AsBool()
		if b {
			return int64(1), nil
		}
		return int64(0), nil
	case value.KindTimestamp:
		t, _ := v.AsTimestamp()
		return value.FormatSQLiteTimestamp(t), nil
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

func convertParams(params []value.Value) ([]any, error) {
	out := make([]any, len(params))
	for i, p := range params {
		converted, err := convertParam(p)
		if err != nil {
			return nil, err
		}
		out[i] = converted
	}
	return out, nil
}
