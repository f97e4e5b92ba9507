// Package typed layers a generic struct-scanning convenience over the
// dynamic rows.ResultSet every backend produces, the Go encoding of
// original_source's typestate "typed" API
// (original_source/src/postgres/typed.rs, sqlite/typed.rs, turso/typed.rs).
// Go has no phantom-generic specialization on method receivers, so unlike
// the Rust original this package doesn't reproduce the Idle/InTx typestate
// itself — sqlmw.ConnectionWrapper and sqlmw.Tx already are that typestate,
// the idiomatic-Go way (two named types with disjoint method sets). typed
// only adds the struct-scan convenience layer on top of their ResultSet
// return values.
package typed

import (
	"fmt"
	"reflect"

	"github.com/jmoiron/sqlx/reflectx"

	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/internal/ident"
	"github.com/sqlmw/go-sql-middleware/rows"
	"github.com/sqlmw/go-sql-middleware/value"
)

// mapper resolves struct fields to column names the same way the teacher
// library's database.DB does: a "db" struct tag, falling back to the
// snake_cased field name (reflectx.NewMapperFunc("db", strcase.Snake) in
// database/db.go).
var mapper = reflectx.NewMapperFunc("db", ident.Snake)

// Select scans every row of rs into a freshly allocated []T, matching
// result columns to T's fields by "db" tag or snake_cased field name. T
// must be a struct type; a pointer or any other non-struct T is rejected
// with an error. Unmatched columns are ignored, and unmatched struct fields
// keep their zero value.
func Select[T any](rs *rows.ResultSet) ([]T, error) {
	out := make([]T, 0, rs.Len())
	traversals, err := fieldTraversals[T](rs.Columns().Names())
	if err != nil {
		return nil, err
	}

	for _, row := range rs.Rows() {
		var item T
		if err := scanRow(row, reflect.ValueOf(&item).Elem(), traversals); err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}

// SelectOne scans the first row of rs into T. It returns a dberr.Execution
// error if rs has no rows — callers that want NULL-on-empty semantics
// should check rs.Len() themselves before calling it.
func SelectOne[T any](rs *rows.ResultSet) (T, error) {
	var zero T
	if rs.Len() == 0 {
		return zero, dberr.Execution("", nil, "typed: expected at least one row, got none")
	}

	traversals, err := fieldTraversals[T](rs.Columns().Names())
	if err != nil {
		return zero, err
	}

	var item T
	if err := scanRow(rs.Rows()[0], reflect.ValueOf(&item).Elem(), traversals); err != nil {
		return zero, err
	}

	return item, nil
}

// fieldTraversals resolves each column name to the struct-field path
// reflectx found for it, once per call rather than once per row.
func fieldTraversals[T any](columns []string) ([][]int, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, dberr.Execution("", nil,
			fmt.Sprintf("typed: %T is not a struct type", zero))
	}

	return mapper.TraversalsByName(t, columns), nil
}

func scanRow(row rows.Row, dest reflect.Value, traversals [][]int) error {
	values := row.Values()
	for i, path := range traversals {
		if len(path) == 0 {
			// No matching struct field for this column; leave it unscanned,
			// the way sqlx.StructScan skips columns with no destination.
			continue
		}

		field := reflectx.FieldByIndexes(dest, path)
		if err := setField(field, values[i]); err != nil {
			return err
		}
	}

	return nil
}

// setField assigns v into field, allocating through pointer indirections
// and applying the same coercions value.Value's accessors already define
// (spec §4.1) rather than inventing a second conversion table.
func setField(field reflect.Value, v value.Value) error {
	if field.Kind() == reflect.Ptr {
		if v.IsNull() {
			field.Set(reflect.Zero(field.Type()))
			return nil
		}
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return setField(field.Elem(), v)
	}

	if v.IsNull() {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		s, ok := v.AsText()
		if !ok {
			return scanTypeError(field, v)
		}
		field.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := v.AsInt()
		if !ok {
			return scanTypeError(field, v)
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := v.AsInt()
		if !ok || n < 0 {
			return scanTypeError(field, v)
		}
		field.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		f, ok := v.AsFloat()
		if !ok {
			return scanTypeError(field, v)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, ok := v.AsBool()
		if !ok {
			return scanTypeError(field, v)
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.Uint8 {
			return scanTypeError(field, v)
		}
		blob, ok := v.AsBlob()
		if !ok {
			return scanTypeError(field, v)
		}
		field.SetBytes(blob)
	case reflect.Struct:
		return setStructField(field, v)
	case reflect.Interface:
		field.Set(reflect.ValueOf(rawValue(v)))
	default:
		return scanTypeError(field, v)
	}

	return nil
}

func setStructField(field reflect.Value, v value.Value) error {
	if t, ok := timeType(field); ok {
		ts, tsOk := v.AsTimestamp()
		if !tsOk {
			return scanTypeError(field, v)
		}
		t.Set(reflect.ValueOf(ts))
		return nil
	}

	return scanTypeError(field, v)
}

// rawValue renders a column's value as a plain Go value for interface{}
// destinations, picking the first accessor that accepts the value's own
// Kind so no coercion is silently applied across kinds.
func rawValue(v value.Value) any {
	switch v.Kind() {
	case value.KindInt:
		n, _ := v.AsInt()
		return n
	case value.KindFloat:
		f, _ := v.AsFloat()
		return f
	case value.KindText:
		s, _ := v.AsText()
		return s
	case value.KindBool:
		b, _ := v.AsBool()
		return b
	case value.KindTimestamp:
		t, _ := v.AsTimestamp()
		return t
	case value.KindBlob:
		b, _ := v.AsBlob()
		return b
	case value.KindJSON:
		j, _ := v.AsJSON()
		return j
	default:
		return nil
	}
}

func timeType(field reflect.Value) (reflect.Value, bool) {
	if field.Type().PkgPath() == "time" && field.Type().Name() == "Time" {
		return field, true
	}
	return reflect.Value{}, false
}

func scanTypeError(field reflect.Value, v value.Value) error {
	return dberr.Execution("", nil, fmt.Sprintf(
		"typed: cannot scan %s column into %s field", v.Kind(), field.Type()))
}
