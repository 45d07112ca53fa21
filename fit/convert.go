package fit

import (
	"io"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/hepkit/frame"
	"github.com/YuminosukeSato/hepkit/pkg/errors"
	"github.com/YuminosukeSato/hepkit/pkg/log"
	"github.com/YuminosukeSato/hepkit/pkg/progress"
)

// DefaultName is the name and title given to datasets built by FromTable.
const DefaultName = "ds"

// Option configures FromTable.
type Option func(*convertConfig)

type convertConfig struct {
	name     string
	title    string
	progress io.Writer
	logger   log.Logger
}

// WithName sets the dataset name.
func WithName(name string) Option {
	return func(c *convertConfig) {
		c.name = name
	}
}

// WithTitle sets the dataset title.
func WithTitle(title string) Option {
	return func(c *convertConfig) {
		c.title = title
	}
}

// WithProgress draws a progress bar over the rows to w.
func WithProgress(w io.Writer) Option {
	return func(c *convertConfig) {
		c.progress = w
	}
}

// WithLogger sets the logger for skipped columns and the summary.
func WithLogger(l log.Logger) Option {
	return func(c *convertConfig) {
		c.logger = l
	}
}

// FromTable builds a Dataset from the given columns of t. With no columns
// every column of t is used. Columns missing from t are skipped. Each
// variable's range is the minimum and maximum of its column, ignoring NaN.
//
// Text columns fail with a NonNumericError. A column without any present
// value, including every column of a zero-row table, gets NaN bounds.
func FromTable(t *frame.Table, columns []string, opts ...Option) (*Dataset, error) {
	cfg := convertConfig{name: DefaultName, title: DefaultName}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLoggerWithName("fit")
	}
	logger := cfg.logger.With(log.OperationKey, log.OperationConvert, log.DatasetKey, cfg.name)

	if t == nil {
		return nil, errors.NewValidationError("table", "must not be nil", nil)
	}
	if len(columns) == 0 {
		columns = t.Columns()
	}

	vars := NewArgSet()
	var data [][]float64
	for _, name := range columns {
		s, ok := t.Column(name)
		if !ok {
			logger.Debug("Skipping absent column", log.ColumnKey, name)
			continue
		}
		values, err := s.Floats()
		if err != nil {
			return nil, err
		}
		min, max := observedRange(values)
		if math.IsNaN(min) {
			logger.Debug("Column has no values, bounds are NaN", log.ColumnKey, name)
		}
		if vars.Add(NewRealVar(name, name, min, max)) {
			data = append(data, values)
		}
	}

	ds := NewDataset(cfg.name, cfg.title, vars)
	// row values go through a working copy of the variables, as SetVal would
	working := ds.vars.snapshot()
	bar := progress.New(cfg.progress, t.NumRows(), "Filling dataset")
	for i := 0; i < t.NumRows(); i++ {
		for j, v := range working.vars {
			v.SetVal(data[j][i])
		}
		if err := ds.Add(working); err != nil {
			return nil, err
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	logger.Info("Dataset created",
		log.VariablesKey, ds.NumVars(),
		log.EntriesKey, ds.NumEntries(),
	)
	return ds, nil
}

// observedRange is the NaN-skipping min and max of values.
func observedRange(values []float64) (min, max float64) {
	finite := dropNaN(values)
	if len(finite) == 0 {
		return math.NaN(), math.NaN()
	}
	return floats.Min(finite), floats.Max(finite)
}
