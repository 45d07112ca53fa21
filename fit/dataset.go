package fit

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/hepkit/pkg/errors"
)

// Dataset is an ordered list of observations over a fixed set of variables.
// Row values are stored row-major in one slice.
type Dataset struct {
	name    string
	title   string
	vars    *ArgSet
	values  []float64
	entries int
}

// NewDataset creates an empty dataset over copies of vars. Later changes to
// vars do not affect the dataset's variable definitions.
func NewDataset(name, title string, vars *ArgSet) *Dataset {
	if vars == nil {
		vars = NewArgSet()
	}
	return &Dataset{name: name, title: title, vars: vars.snapshot()}
}

// Name returns the dataset name.
func (d *Dataset) Name() string { return d.name }

// Title returns the dataset title.
func (d *Dataset) Title() string { return d.title }

// Vars returns a copy of the variable definitions.
func (d *Dataset) Vars() *ArgSet { return d.vars.snapshot() }

// NumVars returns the number of variables.
func (d *Dataset) NumVars() int { return d.vars.Len() }

// NumEntries returns the number of stored observations.
func (d *Dataset) NumEntries() int { return d.entries }

// Add appends one observation holding the current values of the dataset's
// variables, looked up by name in set. set may contain extra variables.
func (d *Dataset) Add(set *ArgSet) error {
	if set == nil {
		return errors.NewValidationError("set", "must not be nil", nil)
	}
	row := make([]float64, d.vars.Len())
	if err := d.vars.valuesFrom(set, row); err != nil {
		return err
	}
	d.values = append(d.values, row...)
	d.entries++
	return nil
}

// Get returns a copy of the variables holding the values of entry i.
func (d *Dataset) Get(i int) (*ArgSet, error) {
	if i < 0 || i >= d.NumEntries() {
		return nil, errors.NewValueError("Dataset.Get", "entry index out of range")
	}
	s := d.vars.snapshot()
	n := s.Len()
	for j, v := range s.vars {
		v.val = d.values[i*n+j]
	}
	return s, nil
}

// Value returns the value of variable name in entry i.
func (d *Dataset) Value(i int, name string) (float64, error) {
	j, ok := d.vars.index[name]
	if !ok {
		return 0, errors.NewColumnNotFoundError("Dataset.Value", name)
	}
	if i < 0 || i >= d.NumEntries() {
		return 0, errors.NewValueError("Dataset.Value", "entry index out of range")
	}
	return d.values[i*d.vars.Len()+j], nil
}

// Column returns all values of variable name in entry order.
func (d *Dataset) Column(name string) ([]float64, error) {
	j, ok := d.vars.index[name]
	if !ok {
		return nil, errors.NewColumnNotFoundError("Dataset.Column", name)
	}
	n := d.vars.Len()
	col := make([]float64, d.NumEntries())
	for i := range col {
		col[i] = d.values[i*n+j]
	}
	return col, nil
}

// Matrix returns the observations as an entries × variables matrix, or nil
// for an empty dataset.
func (d *Dataset) Matrix() *mat.Dense {
	r, c := d.NumEntries(), d.vars.Len()
	if r == 0 || c == 0 {
		return nil
	}
	data := make([]float64, len(d.values))
	copy(data, d.values)
	return mat.NewDense(r, c, data)
}

// Mean returns the mean of variable name over all entries, ignoring NaN.
func (d *Dataset) Mean(name string) (float64, error) {
	x, err := d.finiteColumn(name)
	if err != nil {
		return math.NaN(), err
	}
	return stat.Mean(x, nil), nil
}

// Sigma returns the sample standard deviation of variable name, ignoring NaN.
func (d *Dataset) Sigma(name string) (float64, error) {
	x, err := d.finiteColumn(name)
	if err != nil {
		return math.NaN(), err
	}
	if len(x) < 2 {
		return 0, nil
	}
	return stat.StdDev(x, nil), nil
}

// Range returns the observed minimum and maximum of variable name, ignoring NaN.
func (d *Dataset) Range(name string) (min, max float64, err error) {
	x, err := d.finiteColumn(name)
	if err != nil {
		return math.NaN(), math.NaN(), err
	}
	return floats.Min(x), floats.Max(x), nil
}

func (d *Dataset) finiteColumn(name string) ([]float64, error) {
	col, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	x := dropNaN(col)
	if len(x) == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyData, "variable %s has no values", name)
	}
	return x, nil
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
