// Package loader bulk-loads the files of a directory whose names contain a set
// of substrings.
//
// The same Pattern drives both selection and tagging: every value must occur
// in the file name, and every label becomes a constant column of the loaded
// table. Failures on single files are logged and skipped so one corrupt file
// never aborts a whole load.
package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/YuminosukeSato/hepkit/frame"
	"github.com/YuminosukeSato/hepkit/pkg/errors"
	"github.com/YuminosukeSato/hepkit/pkg/log"
	"github.com/YuminosukeSato/hepkit/pkg/progress"
)

// Pattern maps a column label to a substring every file name must contain.
type Pattern map[string]string

// Keys returns the labels in sorted order, which is also the order the tag
// columns are added in.
func (p Pattern) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Match reports whether name contains every value of the pattern.
// An empty pattern matches every name.
func (p Pattern) Match(name string) bool {
	for _, v := range p {
		if !strings.Contains(name, v) {
			return false
		}
	}
	return true
}

// FileInfo describes a file selected for loading.
type FileInfo struct {
	Path string
	Name string
	Size int64
}

// Files maps a file's base name to its table.
type Files map[string]*frame.Table

// Names returns the file names in sorted order.
func (f Files) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Find lists the regular files in dir matching pattern, sorted by name.
// A directory that does not exist holds no files.
func Find(dir string, pattern Pattern) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read directory %s", dir)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !pattern.Match(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path: filepath.Join(dir, name),
			Name: name,
			Size: info.Size(),
		})
	}
	// os.ReadDir already sorts by name
	return files, nil
}

// ReadFile reads one file into a table, choosing the reader by extension:
// .xlsx files go through the spreadsheet reader, everything else is read as
// delimited text. Reader panics are returned as errors.
func ReadFile(path string, opts ...frame.ReadOption) (tbl *frame.Table, err error) {
	defer errors.Recover(&err, "ReadFile")

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return frame.ReadXLSXFile(path, opts...)
	default:
		return frame.ReadCSVFile(path, opts...)
	}
}

// LoadFiles reads every file in dir matching pattern and tags each table with
// one constant column per pattern label. Files that cannot be read are logged
// and left out of the result.
func LoadFiles(dir string, pattern Pattern, opts ...Option) (Files, error) {
	cfg := newConfig(opts)
	return loadFiles(dir, pattern, cfg)
}

func loadFiles(dir string, pattern Pattern, cfg *config) (Files, error) {
	logger := cfg.logger.With(log.OperationKey, log.OperationLoad)

	found, err := Find(dir, pattern)
	if err != nil {
		return nil, err
	}

	if cfg.printAllFiles {
		names := make([]string, len(found))
		for i, f := range found {
			names[i] = f.Path
		}
		logger.Info("Matching files", log.FileListKey, names)
	}
	logger.Info("Found files", log.FilesKey, len(found), log.DirectoryKey, dir)

	keys := pattern.Keys()
	loaded := make(Files, len(found))
	bar := progress.New(cfg.progress, len(found), "Loading files")
	for _, f := range found {
		tbl, err := ReadFile(f.Path, cfg.readOptions...)
		_ = bar.Add(1)
		if err != nil {
			logger.Error("Can not open file", errors.NewFileReadError(f.Path, err), log.FilePathKey, f.Path)
			continue
		}
		for _, k := range keys {
			tbl.SetConstant(k, pattern[k])
		}
		loaded[f.Name] = tbl
	}
	_ = bar.Finish()

	logger.Info("Loaded files", log.FilesKey, len(loaded))
	return loaded, nil
}

// LoadMerged loads like LoadFiles, then adds the source column holding each
// file's name and concatenates the tables in file name order. Tables that
// cannot be concatenated are logged and left out. With no files the result is
// an empty table.
func LoadMerged(dir string, pattern Pattern, opts ...Option) (*frame.Table, error) {
	cfg := newConfig(opts)

	files, err := loadFiles(dir, pattern, cfg)
	if err != nil {
		return nil, err
	}
	return merge(files, cfg), nil
}

// Merge concatenates already loaded files in name order after setting the
// source column to the file name on every row. The tables in files are
// modified in place.
func Merge(files Files, opts ...Option) *frame.Table {
	return merge(files, newConfig(opts))
}

func merge(files Files, cfg *config) *frame.Table {
	logger := cfg.logger.With(log.OperationKey, log.OperationMerge)

	result := &frame.Table{}
	names := files.Names()
	bar := progress.New(cfg.progress, len(names), "Merging files")
	for _, name := range names {
		tbl := files[name]
		tbl.SetConstant(cfg.sourceColumn, name)

		merged, err := frame.Concat(result, tbl)
		_ = bar.Add(1)
		if err != nil {
			logger.Error("File has not been added to resulting table",
				errors.NewConcatError(name, err), log.FileNameKey, name)
			continue
		}
		result = merged
	}
	_ = bar.Finish()

	logger.Info("Merged files", log.RowsKey, result.NumRows(), log.ColumnsKey, result.NumCols())
	return result
}
