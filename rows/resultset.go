// Package rows implements the Row and ResultSet containers of spec §3: an
// ordered list of values sharing a single column-name vector allocation per
// result set, preserving server-declared row and column order.
package rows

import (
	"github.com/sqlmw/go-sql-middleware/dberr"
	"github.com/sqlmw/go-sql-middleware/value"
)

// Columns is the shared, immutable column-name vector a ResultSet and every
// Row it contains point to. It is allocated once per result set, the way
// spec §3 requires ("Column names are shared ... not per row").
type Columns struct {
	names []string
	index map[string]int
}

// NewColumns builds a Columns from a server-declared column order.
func NewColumns(names []string) *Columns {
	idx := make(map[string]int, len(names))
	for i, n := range names {
		// First occurrence wins on duplicate column names, matching how
		// database/sql itself resolves duplicate names by position.
		if _, exists := idx[n]; !exists {
			idx[n] = i
		}
	}

	return &Columns{names: append([]string(nil), names...), index: idx}
}

func (c *Columns) Names() []string { return c.names }
func (c *Columns) Len() int        { return len(c.names) }

// IndexOf returns the column's position and whether it exists.
func (c *Columns) IndexOf(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

// Row is an ordered list of values plus a shared reference to the column
// name vector. Arity is checked once at construction (spec §3 invariant).
type Row struct {
	cols   *Columns
	values []value.Value
}

// NewRow validates that values and the shared Columns have equal arity.
func NewRow(cols *Columns, values []value.Value) (Row, error) {
	if len(values) != cols.Len() {
		return Row{}, dberr.Execution("", nil,
			"row arity does not match column arity")
	}

	return Row{cols: cols, values: values}, nil
}

func (r Row) Len() int { return len(r.values) }

// At returns the value at a 0-based column index.
func (r Row) At(i int) value.Value { return r.values[i] }

// Get returns the value for a named column.
func (r Row) Get(name string) (value.Value, bool) {
	i, ok := r.cols.IndexOf(name)
	if !ok {
		return value.Value{}, false
	}
	return r.values[i], true
}

// Values returns the row's values in column order. The returned slice must
// not be mutated by callers.
func (r Row) Values() []value.Value { return r.values }

// Columns returns the row's shared column-name vector.
func (r Row) Columns() *Columns { return r.cols }

// ResultSet is a shared column-name vector and an ordered list of rows, in
// server order (spec §3). Rows-affected for DML paths is reported
// separately, not via ResultSet.
type ResultSet struct {
	cols *Columns
	rows []Row
}

// NewResultSet builds a ResultSet from a server-declared column order and
// the rows extracted by a backend's result builder, in server order.
func NewResultSet(columnNames []string, rows []Row) *ResultSet {
	return &ResultSet{cols: NewColumns(columnNames), rows: rows}
}

func (rs *ResultSet) Columns() *Columns { return rs.cols }
func (rs *ResultSet) Rows() []Row       { return rs.rows }
func (rs *ResultSet) Len() int          { return len(rs.rows) }

// Builder accumulates rows against one shared Columns instance, used by
// each backend's result builder (spec §4.3) to avoid allocating a new
// column-name vector per row.
type Builder struct {
	cols *Columns
	rows []Row
}

// NewBuilder extracts the column name list once, as spec §4.3 step 1 requires.
func NewBuilder(columnNames []string) *Builder {
	return &Builder{cols: NewColumns(columnNames)}
}

// Append adds a new row built from values already in column order. The
// caller (a backend's result builder) is responsible for producing values
// in the same order as the Columns this Builder was constructed with.
func (b *Builder) Append(values []value.Value) error {
	row, err := NewRow(b.cols, values)
	if err != nil {
		return err
	}

	b.rows = append(b.rows, row)
	return nil
}

// Build finalizes the accumulated rows into a ResultSet.
func (b *Builder) Build() *ResultSet {
	return &ResultSet{cols: b.cols, rows: b.rows}
}
