package fit

import (
	"bytes"
	"encoding/gob"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/hepkit/frame"
	"github.com/YuminosukeSato/hepkit/pkg/errors"
	"github.com/YuminosukeSato/hepkit/pkg/log"
)

func candidatesTable() *frame.Table {
	return frame.MustNew(
		frame.NewFloats("mass", []float64{5.28, 5.31, 5.25, 5.30}),
		frame.NewInts("charge", []int64{1, -1, -1, 1}),
		frame.NewStrings("detector", []string{"det1", "det1", "det2", "det2"}),
	)
}

func TestDatasetAddAndGet(t *testing.T) {
	x := NewRealVar("x", "x", 0, 10)
	y := NewRealVar("y", "y", -1, 1)
	ds := NewDataset("ds", "test", NewArgSet(x, y))

	x.SetVal(2)
	y.SetVal(0.5)
	require.NoError(t, ds.Add(NewArgSet(x, y)))
	x.SetVal(3)
	require.NoError(t, ds.Add(NewArgSet(x, y, NewRealVar("z", "z", 0, 1))))

	assert.Equal(t, 2, ds.NumEntries())
	row, err := ds.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 3.0, row.Find("x").Val())
	assert.Equal(t, 0.5, row.Find("y").Val())

	_, err = ds.Get(2)
	assert.Error(t, err)

	err = ds.Add(NewArgSet(x))
	var notFound *errors.ColumnNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "y", notFound.Column)
	assert.Equal(t, 2, ds.NumEntries(), "failed Add stores nothing")
}

func TestFromTableRoundTrip(t *testing.T) {
	tbl := candidatesTable()

	ds, err := FromTable(tbl, []string{"mass", "charge"}, WithLogger(log.NewNopLogger()))
	require.NoError(t, err)

	assert.Equal(t, DefaultName, ds.Name())
	assert.Equal(t, tbl.NumRows(), ds.NumEntries())
	assert.Equal(t, []string{"mass", "charge"}, ds.Vars().Names())

	mass := ds.Vars().Find("mass")
	assert.Equal(t, 5.25, mass.Min)
	assert.Equal(t, 5.31, mass.Max)
	charge := ds.Vars().Find("charge")
	assert.Equal(t, -1.0, charge.Min)
	assert.Equal(t, 1.0, charge.Max)

	for i := 0; i < tbl.NumRows(); i++ {
		src, _ := tbl.Column("mass")
		got, err := ds.Value(i, "mass")
		require.NoError(t, err)
		assert.Equal(t, src.Float(i), got)
	}

	m := ds.Matrix()
	r, c := m.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, -1.0, m.At(1, 1))
}

func TestFromTableSkipsAbsentColumns(t *testing.T) {
	ds, err := FromTable(candidatesTable(), []string{"mass", "lifetime"},
		WithLogger(log.NewNopLogger()), WithName("bcands"), WithTitle("B candidates"))
	require.NoError(t, err)

	assert.Equal(t, []string{"mass"}, ds.Vars().Names())
	assert.Equal(t, "bcands", ds.Name())
	assert.Equal(t, "B candidates", ds.Title())
}

func TestFromTableAllColumnsRejectsText(t *testing.T) {
	_, err := FromTable(candidatesTable(), nil, WithLogger(log.NewNopLogger()))

	var nonNumeric *errors.NonNumericError
	require.True(t, errors.As(err, &nonNumeric))
	assert.Equal(t, "detector", nonNumeric.Column)
}

func TestFromTableEmpty(t *testing.T) {
	empty, err := frame.ReadCSV(strings.NewReader("mass,pt\n"))
	require.NoError(t, err)

	ds, err := FromTable(empty, nil, WithLogger(log.NewNopLogger()))
	require.NoError(t, err)

	assert.Equal(t, 0, ds.NumEntries())
	assert.Equal(t, []string{"mass", "pt"}, ds.Vars().Names())
	mass := ds.Vars().Find("mass")
	assert.True(t, math.IsNaN(mass.Min))
	assert.True(t, math.IsNaN(mass.Max))
	assert.Nil(t, ds.Matrix())

	_, err = ds.Mean("mass")
	assert.ErrorIs(t, err, errors.ErrEmptyData)
}

func TestFromTableAllMissingColumn(t *testing.T) {
	tbl, err := frame.ReadCSV(strings.NewReader("a,b\n1,\n2,\n"))
	require.NoError(t, err)

	ds, err := FromTable(tbl, []string{"a", "b"}, WithLogger(log.NewNopLogger()))
	require.NoError(t, err)

	assert.Equal(t, 2, ds.NumEntries())
	a := ds.Vars().Find("a")
	assert.Equal(t, 1.0, a.Min)
	assert.Equal(t, 2.0, a.Max)
	b := ds.Vars().Find("b")
	assert.True(t, math.IsNaN(b.Min))
	assert.True(t, math.IsNaN(b.Max))

	col, err := ds.Column("b")
	require.NoError(t, err)
	for _, v := range col {
		assert.True(t, math.IsNaN(v))
	}
}

func TestFromTableNaN(t *testing.T) {
	tbl := frame.MustNew(frame.NewFloats("pt", []float64{math.NaN(), 4, 2}))

	ds, err := FromTable(tbl, nil, WithLogger(log.NewNopLogger()))
	require.NoError(t, err)

	pt := ds.Vars().Find("pt")
	assert.Equal(t, 2.0, pt.Min)
	assert.Equal(t, 4.0, pt.Max)
	v, _ := ds.Value(0, "pt")
	assert.True(t, math.IsNaN(v))

	mean, err := ds.Mean("pt")
	require.NoError(t, err)
	assert.Equal(t, 3.0, mean)
}

func TestFromTableProgress(t *testing.T) {
	var buf bytes.Buffer
	_, err := FromTable(candidatesTable(), []string{"mass"},
		WithLogger(log.NewNopLogger()), WithProgress(&buf))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Filling dataset")
}

func TestDatasetStatistics(t *testing.T) {
	tbl := frame.MustNew(frame.NewFloats("x", []float64{2, 4, 4, 4, 5, 5, 7, 9}))
	ds, err := FromTable(tbl, nil, WithLogger(log.NewNopLogger()))
	require.NoError(t, err)

	mean, err := ds.Mean("x")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, mean, 1e-12)

	sigma, err := ds.Sigma("x")
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(32.0/7.0), sigma, 1e-12)

	lo, hi, err := ds.Range("x")
	require.NoError(t, err)
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 9.0, hi)

	_, err = ds.Mean("y")
	assert.Error(t, err)
}

func TestSaveLoadDataset(t *testing.T) {
	ds, err := FromTable(candidatesTable(), []string{"mass", "charge"}, WithLogger(log.NewNopLogger()))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ds.gob")
	require.NoError(t, SaveDatasetFile(ds, path))

	back, err := LoadDatasetFile(path)
	require.NoError(t, err)

	assert.Equal(t, ds.Name(), back.Name())
	assert.Equal(t, ds.NumEntries(), back.NumEntries())
	assert.Equal(t, ds.Vars().Names(), back.Vars().Names())
	assert.Equal(t, ds.Vars().Find("mass").Max, back.Vars().Find("mass").Max)
	want, _ := ds.Column("charge")
	got, _ := back.Column("charge")
	assert.Equal(t, want, got)
}

func TestLoadDatasetCorrupt(t *testing.T) {
	_, err := LoadDataset(bytes.NewBufferString("not gob"))
	assert.Error(t, err)
}

func TestLoadDatasetInconsistent(t *testing.T) {
	tests := []struct {
		name string
		file datasetFile
	}{
		{
			name: "negative entries without variables",
			file: datasetFile{Name: "ds", Entries: -3},
		},
		{
			name: "value count mismatch",
			file: datasetFile{Name: "ds", Vars: []varFile{{Name: "x"}}, Values: []float64{1, 2}, Entries: 3},
		},
		{
			name: "duplicate variable names",
			file: datasetFile{
				Name:    "ds",
				Vars:    []varFile{{Name: "x"}, {Name: "x"}},
				Values:  []float64{1, 2, 3, 4},
				Entries: 2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, gob.NewEncoder(&buf).Encode(&tt.file))

			_, err := LoadDataset(&buf)
			var valueErr *errors.ValueError
			assert.True(t, errors.As(err, &valueErr), "got %v", err)
		})
	}
}

func TestPlotHistogram(t *testing.T) {
	ds, err := FromTable(candidatesTable(), []string{"mass"}, WithLogger(log.NewNopLogger()))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "mass.png")
	require.NoError(t, PlotHistogram(ds, "mass", 10, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, PlotHistogram(ds, "mass", 0, path))
	assert.Error(t, PlotHistogram(ds, "pt", 10, path))
}
