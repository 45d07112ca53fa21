package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/hepkit/pkg/errors"
)

// ReadOption configures ReadCSV, ReadCSVFile and ReadXLSXFile.
type ReadOption func(*readConfig)

type readConfig struct {
	comma   rune
	comment rune
	sheet   string
}

func newReadConfig(opts []ReadOption) readConfig {
	cfg := readConfig{comma: ','}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithComma sets the field delimiter. Default ','.
func WithComma(r rune) ReadOption {
	return func(c *readConfig) {
		c.comma = r
	}
}

// WithComment sets the comment character; lines starting with it are ignored.
func WithComment(r rune) ReadOption {
	return func(c *readConfig) {
		c.comment = r
	}
}

// WithSheet selects the spreadsheet sheet to read. Default is the first sheet.
func WithSheet(name string) ReadOption {
	return func(c *readConfig) {
		c.sheet = name
	}
}

// missing cell spellings, treated as NaN in numeric columns
var missingValues = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
}

func isMissing(s string) bool {
	_, ok := missingValues[strings.TrimSpace(s)]
	return ok
}

// ReadCSV reads delimited text with a header row into a table.
func ReadCSV(r io.Reader, opts ...ReadOption) (*Table, error) {
	cfg := newReadConfig(opts)

	reader := csv.NewReader(r)
	reader.Comma = cfg.comma
	reader.Comment = cfg.comment
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.WithStack(errors.ErrNoHeader)
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read row %d", len(records)+1)
		}
		if len(rec) > len(header) {
			return nil, errors.NewValueError("ReadCSV",
				fmt.Sprintf("row %d has %d fields, header has %d", len(records)+1, len(rec), len(header)))
		}
		records = append(records, rec)
	}
	return fromRecords(header, records)
}

// ReadCSVFile opens path and reads it with ReadCSV.
func ReadCSVFile(path string, opts ...ReadOption) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	return ReadCSV(f, opts...)
}

// fromRecords infers one Kind per column and builds the table. Rows shorter
// than the header are padded with empty cells.
func fromRecords(header []string, records [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, errors.WithStack(errors.ErrNoHeader)
	}
	names := columnNames(header)

	t := &Table{index: make(map[string]int, len(names))}
	cells := make([]string, len(records))
	for j, name := range names {
		for i, rec := range records {
			if j < len(rec) {
				cells[i] = rec[j]
			} else {
				cells[i] = ""
			}
		}
		t.setSeries(inferSeries(name, cells))
	}
	return t, nil
}

// columnNames strips a UTF-8 byte order mark, names blank headers
// "Unnamed: i" and suffixes repeated names with ".1", ".2", ...
func columnNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	suffix := make(map[string]int)
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for used[name] {
			suffix[h]++
			name = fmt.Sprintf("%s.%d", h, suffix[h])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// inferSeries picks Int when every present cell is an integer, Float when
// every present cell is a number, String otherwise. Missing cells turn Int
// into Float. A column with no present cells is Float.
func inferSeries(name string, cells []string) *Series {
	allInt, allFloat, anyMissing := true, true, false
	for _, c := range cells {
		if isMissing(c) {
			anyMissing = true
			continue
		}
		v := strings.TrimSpace(c)
		if allInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				allInt = false
			}
		}
		if !allInt {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				allFloat = false
				break
			}
		}
	}

	switch {
	case !allFloat:
		v := make([]string, len(cells))
		copy(v, cells)
		return NewStrings(name, v)
	case allInt && !anyMissing && len(cells) > 0:
		v := make([]int64, len(cells))
		for i, c := range cells {
			v[i], _ = strconv.ParseInt(strings.TrimSpace(c), 10, 64)
		}
		return NewInts(name, v)
	default:
		v := make([]float64, len(cells))
		for i, c := range cells {
			if isMissing(c) {
				v[i] = math.NaN()
				continue
			}
			v[i], _ = strconv.ParseFloat(strings.TrimSpace(c), 64)
		}
		return NewFloats(name, v)
	}
}

// WriteCSV writes t with a header row. NaN is written as an empty cell.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return errors.WithStack(err)
	}
	row := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for j, c := range t.cols {
			row[j] = c.Text(i)
		}
		if err := cw.Write(row); err != nil {
			return errors.WithStack(err)
		}
	}
	cw.Flush()
	return errors.WithStack(cw.Error())
}
