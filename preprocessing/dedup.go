// Package preprocessing cleans and validates loaded tables before they are
// turned into fitting datasets.
package preprocessing

import (
	"fmt"

	"github.com/YuminosukeSato/hepkit/frame"
	"github.com/YuminosukeSato/hepkit/pkg/errors"
	"github.com/YuminosukeSato/hepkit/pkg/log"
)

// DedupReport summarises one RemoveDuplicateRows call.
type DedupReport struct {
	// Initial is the number of input rows
	Initial int
	// Final is the number of rows kept
	Final int
	// Removed is Initial - Final
	Removed int
	// Percent is Removed relative to Initial, in percent. 0 for empty input.
	Percent float64
}

// String formats the report as the three summary lines logged by
// RemoveDuplicateRows.
func (r DedupReport) String() string {
	return fmt.Sprintf("Duplications before removal: %.1f%%\nRows removed: %d\nDuplications after removal: 0.0%%",
		r.Percent, r.Removed)
}

// DedupOption configures RemoveDuplicateRows.
type DedupOption func(*dedupConfig)

type dedupConfig struct {
	logger log.Logger
}

// WithLogger sets the logger that receives the summary.
func WithLogger(l log.Logger) DedupOption {
	return func(c *dedupConfig) {
		c.logger = l
	}
}

// RemoveDuplicateRows drops rows whose values in columns repeat an earlier row,
// keeping the first occurrence. With no columns every column is compared.
//
// Example:
//
//	clean, report, err := preprocessing.RemoveDuplicateRows(tbl, []string{"run", "event"})
func RemoveDuplicateRows(t *frame.Table, columns []string, opts ...DedupOption) (*frame.Table, DedupReport, error) {
	cfg := dedupConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLoggerWithName("preprocessing")
	}
	if t == nil {
		return nil, DedupReport{}, errors.NewValidationError("table", "must not be nil", nil)
	}

	if len(columns) == 0 {
		columns = t.Columns()
	}
	for _, c := range columns {
		if !t.HasColumn(c) {
			return nil, DedupReport{}, errors.NewColumnNotFoundError("RemoveDuplicateRows", c)
		}
	}

	keep, err := t.UniqueRows(columns)
	if err != nil {
		return nil, DedupReport{}, err
	}
	cleaned := t.Take(keep)

	report := DedupReport{
		Initial: t.NumRows(),
		Final:   cleaned.NumRows(),
	}
	report.Removed = report.Initial - report.Final
	// empty input reports 0% instead of dividing by zero
	report.Percent = errors.Percentage(report.Removed, report.Initial)

	logger := cfg.logger.With(log.OperationKey, log.OperationDeduplicate)
	logger.Info(fmt.Sprintf("Duplications before removal: %.1f%%", report.Percent),
		log.DuplicatePercentKey, report.Percent)
	logger.Info(fmt.Sprintf("Rows removed: %d", report.Removed),
		log.RemovedRowsKey, report.Removed, log.RowsKey, report.Final)
	logger.Info("Duplications after removal: 0.0%")

	return cleaned, report, nil
}
