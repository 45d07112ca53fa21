package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/hepkit/fit"
	"github.com/YuminosukeSato/hepkit/frame"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HEPKIT_PROGRESS", "false")
	t.Setenv("HEPKIT_LOG_FORMAT", "json")
	t.Setenv("HEPKIT_LOG_LEVEL", "info")
	t.Setenv("HEPKIT_CONFIG_FILE", "")
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"run1_det1.csv": "event,mass\n1,5.28\n2,5.30\n2,5.30\n",
		"run2_det1.csv": "event,mass\n1,5.25\n",
		"run1_det2.csv": "event,mass\n1,5.10\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func runCmd(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunUsage(t *testing.T) {
	setupEnv(t)

	code, _, stderr := runCmd()
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "Usage")

	code, _, stderr = runCmd("frobnicate")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "unknown command")

	code, stdout, _ := runCmd("help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "dataset")
}

func TestRunInvalidConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("HEPKIT_LOG_LEVEL", "loud")

	code, _, stderr := runCmd("load", t.TempDir())
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "log level")
}

func TestRunLoadSeparate(t *testing.T) {
	setupEnv(t)
	dir := fixtureDir(t)

	code, stdout, _ := runCmd("load", "-pattern", "detector=det1", dir)
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "run1_det1.csv\t3 rows\t3 columns")
	assert.Contains(t, stdout, "run2_det1.csv\t1 rows\t3 columns")
	assert.NotContains(t, stdout, "det2")
}

func TestRunLoadMergeDedupOut(t *testing.T) {
	setupEnv(t)
	dir := fixtureDir(t)
	out := filepath.Join(t.TempDir(), "merged.csv")

	code, stdout, stderr := runCmd("load", "-pattern", "detector=det1", "-merge",
		"-dedup", "event,mass", "-out", out, dir)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "3 rows\t4 columns")
	assert.Contains(t, stderr, "Rows removed: 1")

	tbl, err := frame.ReadCSVFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"event", "mass", "detector", "filesource"}, tbl.Columns())
	assert.Equal(t, 3, tbl.NumRows())
}

func TestRunLoadFlagErrors(t *testing.T) {
	setupEnv(t)
	dir := fixtureDir(t)

	code, _, _ := runCmd("load", "-pattern", "novalue", dir)
	assert.Equal(t, exitError, code)

	code, _, _ = runCmd("load", "-out", "x.csv", dir)
	assert.Equal(t, exitError, code, "-out needs -merge")

	code, _, _ = runCmd("load")
	assert.Equal(t, exitError, code)
}

func TestRunCheck(t *testing.T) {
	setupEnv(t)
	dir := fixtureDir(t)
	a := filepath.Join(dir, "run1_det1.csv")
	b := filepath.Join(dir, "run2_det1.csv")

	code, stdout, _ := runCmd("check", "-columns", "event,mass", a, b)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, a+"\tok")

	code, stdout, _ = runCmd("check", "-columns", "event,pt", a)
	assert.Equal(t, exitCheckFails, code)
	assert.Contains(t, stdout, "missing pt")

	code, stdout, _ = runCmd("check", "-columns", "event", filepath.Join(dir, "absent.csv"))
	assert.Equal(t, exitCheckFails, code)
	assert.Contains(t, stdout, "unreadable")

	code, _, _ = runCmd("check", a)
	assert.Equal(t, exitError, code)
}

func TestRunDataset(t *testing.T) {
	setupEnv(t)
	dir := fixtureDir(t)
	work := t.TempDir()
	gobPath := filepath.Join(work, "ds.gob")
	pngPath := filepath.Join(work, "mass.png")

	code, stdout, stderr := runCmd("dataset", "-columns", "mass", "-name", "bmass",
		"-out", gobPath, "-hist", "mass="+pngPath, "-bins", "5",
		filepath.Join(dir, "run1_det1.csv"))
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "bmass: 3 entries")
	assert.Contains(t, stdout, "mass\t[5.28, 5.3]")

	ds, err := fit.LoadDatasetFile(gobPath)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.NumEntries())
	assert.FileExists(t, pngPath)
}

func TestRunDatasetErrors(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "text.csv")
	require.NoError(t, os.WriteFile(path, []byte("name\nalpha\n"), 0o644))

	code, _, stderr := runCmd("dataset", path)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "could not convert column")

	code, _, _ = runCmd("dataset", "-hist", "nopath", path)
	assert.Equal(t, exitError, code)
}
