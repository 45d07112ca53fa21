package frame

import (
	"math"
	"strconv"

	"github.com/YuminosukeSato/hepkit/pkg/errors"
)

// Kind is the element type of a Series.
type Kind int

const (
	// Float columns hold float64 values; missing cells are NaN.
	Float Kind = iota
	// Int columns hold int64 values.
	Int
	// String columns hold raw text.
	String
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case Int:
		return "int"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Numeric reports whether values of this kind convert to float64.
func (k Kind) Numeric() bool {
	return k == Float || k == Int
}

// Series is a named column of a single Kind. Exactly one of the backing
// slices is used, selected by kind.
type Series struct {
	name    string
	kind    Kind
	floats  []float64
	ints    []int64
	strings []string
}

// NewFloats creates a Float series. values is not copied.
func NewFloats(name string, values []float64) *Series {
	if values == nil {
		values = []float64{}
	}
	return &Series{name: name, kind: Float, floats: values}
}

// NewInts creates an Int series. values is not copied.
func NewInts(name string, values []int64) *Series {
	if values == nil {
		values = []int64{}
	}
	return &Series{name: name, kind: Int, ints: values}
}

// NewStrings creates a String series. values is not copied.
func NewStrings(name string, values []string) *Series {
	if values == nil {
		values = []string{}
	}
	return &Series{name: name, kind: String, strings: values}
}

// NewConstant creates a String series of n copies of value.
func NewConstant(name, value string, n int) *Series {
	values := make([]string, n)
	for i := range values {
		values[i] = value
	}
	return NewStrings(name, values)
}

// Name returns the column name.
func (s *Series) Name() string { return s.name }

// Kind returns the column type.
func (s *Series) Kind() Kind { return s.kind }

// Len returns the number of values.
func (s *Series) Len() int {
	switch s.kind {
	case Int:
		return len(s.ints)
	case String:
		return len(s.strings)
	default:
		return len(s.floats)
	}
}

// Float returns value i as float64. String series return NaN.
func (s *Series) Float(i int) float64 {
	switch s.kind {
	case Float:
		return s.floats[i]
	case Int:
		return float64(s.ints[i])
	default:
		return math.NaN()
	}
}

// Text returns value i formatted as text. NaN formats as the empty string,
// so a written table reads back with the same missing cells.
func (s *Series) Text(i int) string {
	switch s.kind {
	case Float:
		if math.IsNaN(s.floats[i]) {
			return ""
		}
		return strconv.FormatFloat(s.floats[i], 'g', -1, 64)
	case Int:
		return strconv.FormatInt(s.ints[i], 10)
	default:
		return s.strings[i]
	}
}

// Key returns the canonical text of value i used for row equality.
// NaN values compare equal to each other.
func (s *Series) Key(i int) string {
	if s.kind == Float && math.IsNaN(s.floats[i]) {
		return "NaN"
	}
	return s.Text(i)
}

// Floats returns a copy of the values as float64. It fails for String series.
func (s *Series) Floats() ([]float64, error) {
	if !s.kind.Numeric() {
		return nil, errors.NewNonNumericError(s.name, s.kind.String())
	}
	out := make([]float64, s.Len())
	for i := range out {
		out[i] = s.Float(i)
	}
	return out, nil
}

func (s *Series) take(rows []int) *Series {
	switch s.kind {
	case Int:
		v := make([]int64, len(rows))
		for i, r := range rows {
			v[i] = s.ints[r]
		}
		return NewInts(s.name, v)
	case String:
		v := make([]string, len(rows))
		for i, r := range rows {
			v[i] = s.strings[r]
		}
		return NewStrings(s.name, v)
	default:
		v := make([]float64, len(rows))
		for i, r := range rows {
			v[i] = s.floats[r]
		}
		return NewFloats(s.name, v)
	}
}

func (s *Series) equal(o *Series) bool {
	if s.name != o.name || s.kind != o.kind || s.Len() != o.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		if s.Key(i) != o.Key(i) {
			return false
		}
	}
	return true
}
