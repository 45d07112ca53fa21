package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/hepkit/frame"
	"github.com/YuminosukeSato/hepkit/pkg/log"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func runFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"run1_det1.csv": "event,energy\n1,10.5\n2,11.0\n3,12.5\n",
		"run2_det1.csv": "event,energy\n1,20.0\n2,21.5\n",
		"run1_det2.csv": "event,energy\n1,30.0\n",
		"notes.txt":     "not a table",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "det1_archive"), 0o755))
	return dir
}

func TestPatternMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern Pattern
		file    string
		want    bool
	}{
		{name: "all values present", pattern: Pattern{"detector": "det1", "run": "run2"}, file: "run2_det1.csv", want: true},
		{name: "one value missing", pattern: Pattern{"detector": "det1", "run": "run3"}, file: "run2_det1.csv", want: false},
		{name: "empty pattern", pattern: Pattern{}, file: "anything.csv", want: true},
		{name: "case sensitive", pattern: Pattern{"detector": "DET1"}, file: "run2_det1.csv", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pattern.Match(tt.file))
		})
	}
}

func TestFind(t *testing.T) {
	dir := runFixture(t)

	files, err := Find(dir, Pattern{"detector": "det1"})
	require.NoError(t, err)

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"run1_det1.csv", "run2_det1.csv"}, names, "directories are skipped")
	assert.Equal(t, filepath.Join(dir, "run1_det1.csv"), files[0].Path)
}

func TestFindMissingDirectory(t *testing.T) {
	files, err := Find(filepath.Join(t.TempDir(), "absent"), Pattern{})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLoadFilesTagsRows(t *testing.T) {
	dir := runFixture(t)
	logger, _ := log.NewTestLogger(log.LevelDebug)

	files, err := LoadFiles(dir, Pattern{"detector": "det1", "run": "run"},
		WithLogger(logger), WithProgress(nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"run1_det1.csv", "run2_det1.csv"}, files.Names())
	for _, name := range files.Names() {
		tbl := files[name]
		assert.Equal(t, []string{"event", "energy", "detector", "run"}, tbl.Columns())
		det, _ := tbl.Column("detector")
		run, _ := tbl.Column("run")
		for i := 0; i < tbl.NumRows(); i++ {
			assert.Equal(t, "det1", det.Text(i))
			assert.Equal(t, "run", run.Text(i))
		}
	}
	assert.True(t, logger.ContainsField(log.FilesKey, 2.0))
}

func TestLoadFilesSkipsUnreadable(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"good_det1.csv":   "a,b\n1,2\n",
		"ragged_det1.csv": "a,b\n1,2,3\n",
		"empty_det1.csv":  "",
	})
	logger, _ := log.NewTestLogger(log.LevelDebug)

	files, err := LoadFiles(dir, Pattern{"detector": "det1"}, WithLogger(logger), WithProgress(nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"good_det1.csv"}, files.Names())
	assert.Equal(t, 2, logger.Count(log.LevelError))
	assert.True(t, logger.ContainsField(log.FilePathKey, filepath.Join(dir, "ragged_det1.csv")))
}

func TestLoadMerged(t *testing.T) {
	dir := runFixture(t)
	logger, _ := log.NewTestLogger(log.LevelInfo)
	var progressOut bytes.Buffer

	merged, err := LoadMerged(dir, Pattern{"detector": "det1"},
		WithLogger(logger), WithProgress(&progressOut))
	require.NoError(t, err)

	assert.Equal(t, 5, merged.NumRows())
	assert.Equal(t, []string{"event", "energy", "detector", DefaultSourceColumn}, merged.Columns())

	det, _ := merged.Column("detector")
	src, _ := merged.Column(DefaultSourceColumn)
	sources := map[string]int{}
	for i := 0; i < merged.NumRows(); i++ {
		assert.Equal(t, "det1", det.Text(i))
		sources[src.Text(i)]++
	}
	assert.Equal(t, map[string]int{"run1_det1.csv": 3, "run2_det1.csv": 2}, sources)
	assert.Contains(t, progressOut.String(), "Loading files")
	assert.Contains(t, progressOut.String(), "Merging files")
}

func TestLoadMergedSingleFile(t *testing.T) {
	dir := runFixture(t)

	merged, err := LoadMerged(dir, Pattern{"detector": "det2"},
		WithLogger(log.NewNopLogger()), WithProgress(nil), WithSourceColumn("origin"))
	require.NoError(t, err)

	single, err := frame.ReadCSVFile(filepath.Join(dir, "run1_det2.csv"))
	require.NoError(t, err)
	single.SetConstant("detector", "det2")
	single.SetConstant("origin", "run1_det2.csv")

	assert.True(t, frame.Equal(single, merged))
}

func TestLoadMergedSkipsIncompatibleTable(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a_det1.csv": "energy\n1.5\n",
		"b_det1.csv": "energy\nhigh\n",
		"c_det1.csv": "energy\n2.5\n",
	})
	logger, _ := log.NewTestLogger(log.LevelDebug)

	merged, err := LoadMerged(dir, Pattern{"detector": "det1"}, WithLogger(logger), WithProgress(nil))
	require.NoError(t, err)

	assert.Equal(t, 2, merged.NumRows())
	assert.Equal(t, 1, logger.Count(log.LevelError))
	assert.True(t, logger.ContainsField(log.FileNameKey, "b_det1.csv"))
}

func TestLoadMergedNoFiles(t *testing.T) {
	merged, err := LoadMerged(t.TempDir(), Pattern{"detector": "det9"},
		WithLogger(log.NewNopLogger()), WithProgress(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, merged.NumRows())
	assert.Equal(t, 0, merged.NumCols())
}

func TestLoadFilesPrintAllFiles(t *testing.T) {
	dir := runFixture(t)
	logger, _ := log.NewTestLogger(log.LevelInfo)

	_, err := LoadFiles(dir, Pattern{"detector": "det2"},
		WithLogger(logger), WithProgress(nil), WithPrintAllFiles(true))
	require.NoError(t, err)
	assert.True(t, logger.ContainsMessage("Matching files"))
}

func TestLoadFilesReadOptions(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"run1.tsv": "a\tb\n1\t2\n"})

	files, err := LoadFiles(dir, Pattern{}, WithLogger(log.NewNopLogger()), WithProgress(nil),
		WithReadOptions(frame.WithComma('\t')))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, files["run1.tsv"].Columns())
}
