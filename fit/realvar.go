package fit

import (
	"math"

	"github.com/YuminosukeSato/hepkit/pkg/errors"
)

// RealVar is a named real variable with an allowed range [Min, Max] and a
// current value.
type RealVar struct {
	Name  string
	Title string
	Min   float64
	Max   float64
	val   float64
}

// NewRealVar creates a variable whose value starts at the middle of its range.
// Min and Max are swapped when given in the wrong order.
func NewRealVar(name, title string, min, max float64) *RealVar {
	if min > max {
		min, max = max, min
	}
	return &RealVar{Name: name, Title: title, Min: min, Max: max, val: (min + max) / 2}
}

// Val returns the current value.
func (v *RealVar) Val() float64 { return v.val }

// SetVal sets the current value, clipped into [Min, Max]. NaN is stored as is.
func (v *RealVar) SetVal(x float64) {
	switch {
	case math.IsNaN(x):
	case x < v.Min:
		x = v.Min
	case x > v.Max:
		x = v.Max
	}
	v.val = x
}

// InRange reports whether x lies within [Min, Max].
func (v *RealVar) InRange(x float64) bool {
	return x >= v.Min && x <= v.Max
}

// clone copies the variable including its value.
func (v *RealVar) clone() *RealVar {
	c := *v
	return &c
}

// ArgSet is an ordered set of variables with unique names.
type ArgSet struct {
	vars  []*RealVar
	index map[string]int
}

// NewArgSet creates a set. Variables with a name already in the set are
// ignored.
func NewArgSet(vars ...*RealVar) *ArgSet {
	s := &ArgSet{index: make(map[string]int, len(vars))}
	for _, v := range vars {
		s.Add(v)
	}
	return s
}

// Add appends v. It returns false, leaving the set unchanged, when v is nil
// or a variable of the same name is already present.
func (s *ArgSet) Add(v *RealVar) bool {
	if v == nil {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[v.Name]; ok {
		return false
	}
	s.index[v.Name] = len(s.vars)
	s.vars = append(s.vars, v)
	return true
}

// Find returns the variable called name, or nil.
func (s *ArgSet) Find(name string) *RealVar {
	i, ok := s.index[name]
	if !ok {
		return nil
	}
	return s.vars[i]
}

// Len returns the number of variables.
func (s *ArgSet) Len() int { return len(s.vars) }

// At returns the i-th variable.
func (s *ArgSet) At(i int) *RealVar { return s.vars[i] }

// Names returns the variable names in order.
func (s *ArgSet) Names() []string {
	names := make([]string, len(s.vars))
	for i, v := range s.vars {
		names[i] = v.Name
	}
	return names
}

// snapshot deep-copies the set so later SetVal calls do not leak into it.
func (s *ArgSet) snapshot() *ArgSet {
	c := &ArgSet{vars: make([]*RealVar, len(s.vars)), index: make(map[string]int, len(s.vars))}
	for i, v := range s.vars {
		c.vars[i] = v.clone()
		c.index[v.Name] = i
	}
	return c
}

// valuesFrom reads the current value of each of s's variables from src.
func (s *ArgSet) valuesFrom(src *ArgSet, dst []float64) error {
	for i, v := range s.vars {
		sv := src.Find(v.Name)
		if sv == nil {
			return errors.NewColumnNotFoundError("Dataset.Add", v.Name)
		}
		dst[i] = sv.Val()
	}
	return nil
}
