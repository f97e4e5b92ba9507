// Package value implements the tagged value union (spec §3) that every
// backend param converter and result builder translates to and from, along
// with the small, explicit accessor coercion set of spec §4.1.
package value

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Kind discriminates the variant carried by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindBool
	KindTimestamp
	KindBlob
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "timestamp"
	case KindBlob:
		return "blob"
	case KindJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Value is a closed tagged union over the variants spec §3 lists: 64-bit
// signed integer, 64-bit float, UTF-8 text, boolean, naive timestamp (no
// timezone), binary blob, structured JSON and null.
//
// It is intentionally not an interface{} sum type: a struct with one active
// field keeps zero-allocation copies cheap, the way sqlx/driver.Value
// conversions do for the teacher library's types package, while still
// letting accessors refuse cross-kind reads outright instead of silently
// type-asserting.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
	t    time.Time
	blob []byte
	json any
}

func Null() Value                 { return Value{kind: KindNull} }
func Int(v int64) Value           { return Value{kind: KindInt, i: v} }
func Float(v float64) Value       { return Value{kind: KindFloat, f: v} }
func Text(v string) Value         { return Value{kind: KindText, s: v} }
func Bool(v bool) Value           { return Value{kind: KindBool, b: v} }
func Timestamp(v time.Time) Value { return Value{kind: KindTimestamp, t: v} }
func Blob(v []byte) Value         { return Value{kind: KindBlob, blob: append([]byte(nil), v...)} }

// JSON stores an arbitrary tree (the result of json.Unmarshal into any, or a
// caller-built map[string]any/[]any). It is never parsed implicitly by
// accessors reading Text — callers opt into JSON explicitly.
func JSON(v any) Value { return Value{kind: KindJSON, json: v} }

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsNull() bool  { return v.kind == KindNull }

// AsInt returns the exact Int, or applies the Bool->Int (false=0, true=1)
// coercion spec §4.1 allows. All other kinds return (0, false).
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// AsFloat returns the exact Float, or applies the Int->Float widening
// coercion spec §4.1 allows.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

func (v Value) AsText() (string, bool) {
	if v.kind == KindText {
		return v.s, true
	}
	return "", false
}

// AsBool returns the exact Bool, or applies the Int(0/1)->Bool coercion
// spec §4.1 allows. Any other int value is not a valid bool and returns false.
func (v Value) AsBool() (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindInt:
		switch v.i {
		case 0:
			return false, true
		case 1:
			return true, true
		default:
			return false, false
		}
	default:
		return false, false
	}
}

// TimestampLayouts are the text layouts AsTimestamp tries, in order. The
// canonical SQLite-family form (spec §4.1, §9 Open Questions) is tried
// first; a trailing ".fff" fractional component is optional.
var TimestampLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
}

// AsTimestamp returns the exact Timestamp, or applies the Text->Timestamp
// coercion for "%Y-%m-%d %H:%M:%S[.%3f]" spec §4.1 names. JSON is never
// auto-parsed from text here or anywhere else in the accessor set.
func (v Value) AsTimestamp() (time.Time, bool) {
	switch v.kind {
	case KindTimestamp:
		return v.t, true
	case KindText:
		for _, layout := range TimestampLayouts {
			if t, err := time.Parse(layout, v.s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func (v Value) AsBlob() ([]byte, bool) {
	if v.kind == KindBlob {
		return v.blob, true
	}
	return nil, false
}

// AsJSON returns the exact JSON payload. Unlike AsTimestamp, this never
// attempts to parse Text — that promotion, when wanted, is the result
// builder's job (spec §4.3) and is opt-in per backend, not an accessor rule.
func (v Value) AsJSON() (any, bool) {
	if v.kind == KindJSON {
		return v.json, true
	}
	return nil, false
}

// FormatSQLiteTimestamp renders t in the canonical SQLite-family text form
// ("%F %T%.f") spec §4.2/§6.2 require for the SQLite/libSQL/Turso backends.
func FormatSQLiteTimestamp(t time.Time) string {
	s := t.Format("2006-01-02 15:04:05.000000")
	return strings.TrimSuffix(s, ".000000")
}

// LooksLikeJSON is the deterministic, opt-in promotion test spec §4.3 point 3
// describes: text that parses as a JSON object or array (not a bare scalar)
// is eligible for promotion to KindJSON by a result builder that has opted
// in for its backend.
func LooksLikeJSON(s string) (any, bool) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return nil, false
	}

	var out any
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return nil, false
	}

	return out, true
}

// LooksLikeTimestamp is the deterministic, opt-in promotion test for text
// matching "%F %T[.%f]" that a SQLite-family result builder may use to
// promote a TEXT column to KindTimestamp (spec §4.3 point 3).
func LooksLikeTimestamp(s string) (time.Time, bool) {
	for _, layout := range TimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// overflowsInt2 reports whether v cannot be represented in a 16-bit signed
// integer, the narrowing spec §4.2/§8.3 requires PostgreSQL's INT2 param
// binding to reject with a typed execution error instead of truncating.
func overflowsInt2(v int64) bool {
	return v < -32768 || v > 32767
}

// overflowsInt4 is the INT4 analogue of overflowsInt2.
func overflowsInt4(v int64) bool {
	return v < -2147483648 || v > 2147483647
}

// NarrowToInt2 and NarrowToInt4 implement the Postgres column-type-driven
// integer narrowing spec §4.2 and §8.3 require: an overflow is a runtime
// error, never a silent truncation.
func NarrowToInt2(v int64) (int16, bool) {
	if overflowsInt2(v) {
		return 0, false
	}
	return int16(v), true
}

func NarrowToInt4(v int64) (int32, bool) {
	if overflowsInt4(v) {
		return 0, false
	}
	return int32(v), true
}

// ParseIntStrict parses s as a base-10 int64, used by the backends' result
// builders when the driver hands back an integer cell as text bytes.
func ParseIntStrict(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
