package frame

import (
	"github.com/xuri/excelize/v2"

	"github.com/YuminosukeSato/hepkit/pkg/errors"
)

// ReadXLSXFile reads one sheet of a spreadsheet. The first row is the header;
// types are inferred exactly as for CSV input.
func ReadXLSXFile(path string, opts ...ReadOption) (*Table, error) {
	cfg := newReadConfig(opts)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "open spreadsheet")
	}
	defer f.Close()

	sheet := cfg.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.WithStack(errors.ErrNoHeader)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %s", sheet)
	}
	if len(rows) == 0 {
		return nil, errors.WithStack(errors.ErrNoHeader)
	}
	return fromRecords(rows[0], rows[1:])
}
