package frame

import (
	"math"

	"github.com/YuminosukeSato/hepkit/pkg/errors"
)

// Concat appends the rows of b below the rows of a and returns a new table.
//
// Columns are the union of both tables in first-seen order. A column missing
// from one side is filled with NaN (numeric) or "" (String). Int columns that
// meet Float columns, or need NaN fill, are promoted to Float and a
// DataConversionWarning is raised. A String column meeting a numeric column
// of the same name is a ColumnKindError.
func Concat(a, b *Table) (*Table, error) {
	names := a.Columns()
	for _, n := range b.Columns() {
		if !a.HasColumn(n) {
			names = append(names, n)
		}
	}

	na, nb := a.NumRows(), b.NumRows()
	out := &Table{index: make(map[string]int, len(names))}
	for _, name := range names {
		left, hasLeft := a.Column(name)
		right, hasRight := b.Column(name)

		kind, err := mergedKind(name, left, right, na, nb)
		if err != nil {
			return nil, err
		}

		var s *Series
		switch kind {
		case String:
			v := make([]string, 0, na+nb)
			v = appendStrings(v, left, na)
			v = appendStrings(v, right, nb)
			s = NewStrings(name, v)
		case Int:
			v := make([]int64, 0, na+nb)
			if left != nil {
				v = append(v, left.ints...)
			}
			if right != nil {
				v = append(v, right.ints...)
			}
			s = NewInts(name, v)
		default:
			v := make([]float64, 0, na+nb)
			v = appendFloats(v, left, na)
			v = appendFloats(v, right, nb)
			s = NewFloats(name, v)
			if (hasLeft && left.kind == Int) || (hasRight && right.kind == Int) {
				errors.Warn(errors.NewDataConversionWarning(name, Int.String(), Float.String(),
					"concatenated with float or missing values"))
			}
		}
		out.setSeries(s)
	}
	return out, nil
}

// mergedKind decides the result type of a column. An absent side with zero
// rows does not force promotion.
func mergedKind(name string, left, right *Series, na, nb int) (Kind, error) {
	switch {
	case left == nil && right == nil:
		return Float, nil
	case left == nil:
		if right.kind == Int && na > 0 {
			return Float, nil
		}
		return right.kind, nil
	case right == nil:
		if left.kind == Int && nb > 0 {
			return Float, nil
		}
		return left.kind, nil
	}

	if left.kind == right.kind {
		return left.kind, nil
	}
	if left.kind.Numeric() && right.kind.Numeric() {
		return Float, nil
	}
	// an empty side carries no values to conflict with
	if na == 0 {
		return right.kind, nil
	}
	if nb == 0 {
		return left.kind, nil
	}
	return 0, errors.NewColumnKindError(name, left.kind.String(), right.kind.String())
}

func appendStrings(dst []string, s *Series, n int) []string {
	if s == nil {
		for i := 0; i < n; i++ {
			dst = append(dst, "")
		}
		return dst
	}
	for i := 0; i < s.Len(); i++ {
		dst = append(dst, s.Text(i))
	}
	return dst
}

func appendFloats(dst []float64, s *Series, n int) []float64 {
	if s == nil {
		for i := 0; i < n; i++ {
			dst = append(dst, math.NaN())
		}
		return dst
	}
	for i := 0; i < s.Len(); i++ {
		dst = append(dst, s.Float(i))
	}
	return dst
}
