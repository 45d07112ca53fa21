// Package frame implements in-memory tables of named, typed columns.
//
// Column types are decided once, at the load boundary (ReadCSV, ReadXLSXFile),
// and stay fixed afterwards. Rows have no identity beyond their position.
package frame

import (
	"fmt"

	"github.com/YuminosukeSato/hepkit/pkg/errors"
)

// Table is an ordered collection of equal-length Series with unique names.
// The zero value is an empty table with no columns.
type Table struct {
	cols  []*Series
	index map[string]int
}

// New builds a table from series. All series must have the same length and
// distinct names.
func New(series ...*Series) (*Table, error) {
	t := &Table{index: make(map[string]int, len(series))}
	for _, s := range series {
		if s == nil {
			return nil, errors.NewValidationError("series", "must not be nil", nil)
		}
		if _, dup := t.index[s.name]; dup {
			return nil, errors.NewValidationError("series", "duplicate column name", s.name)
		}
		if len(t.cols) > 0 && s.Len() != t.cols[0].Len() {
			return nil, errors.NewValueError("frame.New",
				fmt.Sprintf("column '%s' has %d rows, expected %d", s.name, s.Len(), t.cols[0].Len()))
		}
		t.index[s.name] = len(t.cols)
		t.cols = append(t.cols, s)
	}
	return t, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(series ...*Series) *Table {
	t, err := New(series...)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if t == nil || len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	if t == nil {
		return 0
	}
	return len(t.cols)
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.name
	}
	return names
}

// Column returns the named series.
func (t *Table) Column(name string) (*Series, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// HasColumn reports whether the table has a column called name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// SetConstant sets column name to value on every row. An existing column of
// that name is replaced in place; otherwise the column is appended.
func (t *Table) SetConstant(name, value string) {
	t.setSeries(NewConstant(name, value, t.NumRows()))
}

func (t *Table) setSeries(s *Series) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[s.name]; ok {
		t.cols[i] = s
		return
	}
	t.index[s.name] = len(t.cols)
	t.cols = append(t.cols, s)
}

// Take returns a new table holding rows in the given order.
func (t *Table) Take(rows []int) *Table {
	out := &Table{index: make(map[string]int, t.NumCols())}
	for _, c := range t.cols {
		out.setSeries(c.take(rows))
	}
	return out
}

// rowKey joins the canonical values of the given column indices of row i.
func (t *Table) rowKey(i int, cols []int) string {
	key := make([]byte, 0, 16*len(cols))
	for _, c := range cols {
		v := t.cols[c].Key(i)
		key = append(key, fmt.Sprintf("%d:", len(v))...)
		key = append(key, v...)
	}
	return string(key)
}

// UniqueRows returns the index of the first row of every distinct combination
// of values in columns, in table order. It fails on unknown columns.
func (t *Table) UniqueRows(columns []string) ([]int, error) {
	cols := make([]int, len(columns))
	for i, name := range columns {
		j, ok := t.index[name]
		if !ok {
			return nil, errors.NewColumnNotFoundError("UniqueRows", name)
		}
		cols[i] = j
	}

	seen := make(map[string]struct{}, t.NumRows())
	var keep []int
	for i := 0; i < t.NumRows(); i++ {
		k := t.rowKey(i, cols)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}
	return keep, nil
}

// Equal reports whether a and b have the same columns, kinds and values.
// NaN values compare equal.
func Equal(a, b *Table) bool {
	if a.NumCols() != b.NumCols() || a.NumRows() != b.NumRows() {
		return false
	}
	if a.NumCols() == 0 {
		return true
	}
	for i := range a.cols {
		if !a.cols[i].equal(b.cols[i]) {
			return false
		}
	}
	return true
}
