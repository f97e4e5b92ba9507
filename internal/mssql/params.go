package mssql

import (
	"encoding/json"
	"time"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/value"
)

// convertParam implements spec §4.2's MSSQL row: integers as I64, floats as
// F64, booleans as Bit, timestamps as ISO-8601 text, blobs as Binary, JSON
// as text, null as typed-null text.
func convertParam(v value.Value) (any, error) {
	switch v.Kind() {
	case value.KindNull:
		return nil, nil
	case value.KindInt:
		n, _ := v.AsInt()
		return n, nil
	case value.KindFloat:
		f, _ := v.AsFloat()
		return f, nil
	case value.KindBool:
		b, _ := v.AsBool()
		return b, nil
	case value.KindText:
		s, _ := v.AsText()
		return s, nil
	case value.KindTimestamp:
		t, _ := v.AsTimestamp()
		return t.UTC().Format(time.RFC3339Nano), nil
	case value.KindBlob:
		b, _ := v.AsBlob()
		return b, nil
	case value.KindJSON:
		j, _ := v.AsJSON()
		encoded, err := json.Marshal(j)
		if err != nil {
			return nil, dberr.Parameter(Backend, "can't encode JSON parameter: "+err.Error())
		}
		return string(encoded), nil
	default:
		return nil, dberr.Parameter(Backend, "unsupported parameter kind")
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
