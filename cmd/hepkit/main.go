// Command hepkit loads, checks and converts tabular event files.
//
// Usage:
//
//	hepkit load    [-pattern key=value]... [-merge] [-dedup cols] [-out file.csv] [-list] DIR
//	hepkit check   -columns a,b FILE...
//	hepkit dataset [-columns a,b] [-name ds] [-out ds.gob] [-hist var=plot.png] [-bins n] FILE
//
// Settings such as the log level are read from HEPKIT_* environment variables.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/YuminosukeSato/hepkit/fit"
	"github.com/YuminosukeSato/hepkit/frame"
	"github.com/YuminosukeSato/hepkit/internal/config"
	"github.com/YuminosukeSato/hepkit/loader"
	"github.com/YuminosukeSato/hepkit/pkg/errors"
	"github.com/YuminosukeSato/hepkit/pkg/log"
	"github.com/YuminosukeSato/hepkit/preprocessing"
)

const (
	exitOK         = 0
	exitError      = 1
	exitCheckFails = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every subcommand needs.
type app struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
	logger log.Logger
}

func (a *app) progress() io.Writer {
	if a.cfg.Progress {
		return a.stderr
	}
	return nil
}

func (a *app) readOptions() []frame.ReadOption {
	return []frame.ReadOption{frame.WithComma(a.cfg.Comma())}
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitError
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "hepkit: %v\n", err)
		return exitError
	}
	if err := log.SetupLogger(stderr, cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintf(stderr, "hepkit: %v\n", err)
		return exitError
	}
	a := &app{cfg: cfg, stdout: stdout, stderr: stderr, logger: log.GetLoggerWithName("hepkit")}

	switch args[0] {
	case "load":
		err = a.load(args[1:])
	case "check":
		var ok bool
		ok, err = a.check(args[1:])
		if err == nil && !ok {
			return exitCheckFails
		}
	case "dataset":
		err = a.dataset(args[1:])
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "hepkit: unknown command %q\n", args[0])
		usage(stderr)
		return exitError
	}

	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			a.logger.Error("Command failed", err, log.OperationKey, args[0])
		}
		return exitError
	}
	return exitOK
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: hepkit <command> [flags] [args]

Commands:
  load      load the files of a directory matching a pattern
  check     verify that files contain the given columns
  dataset   convert a file into a fitting dataset
`)
}

// patternFlag collects repeated -pattern key=value flags.
type patternFlag loader.Pattern

func (p patternFlag) String() string {
	parts := make([]string, 0, len(p))
	for _, k := range loader.Pattern(p).Keys() {
		parts = append(parts, k+"="+p[k])
	}
	return strings.Join(parts, ",")
}

func (p patternFlag) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || key == "" || val == "" {
		return errors.Newf("pattern %q is not key=value", value)
	}
	p[key] = val
	return nil
}

// splitList splits a comma separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func (a *app) load(args []string) error {
	fs := newFlagSet("load", a.stderr)
	pattern := patternFlag{}
	fs.Var(pattern, "pattern", "key=value the file names must contain; repeatable")
	merge := fs.Bool("merge", false, "concatenate the files into one table")
	dedup := fs.String("dedup", "", "comma separated columns to remove duplicates on, or * for all (with -merge)")
	out := fs.String("out", "", "write the merged table to this CSV file (with -merge)")
	list := fs.Bool("list", false, "log every matching file path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.NewValidationError("dir", "exactly one directory is required", fs.Args())
	}
	if !*merge && (*dedup != "" || *out != "") {
		return errors.NewValidationError("merge", "-dedup and -out need -merge", *merge)
	}
	dir := fs.Arg(0)

	opts := []loader.Option{
		loader.WithLogger(log.GetLoggerWithName("loader")),
		loader.WithProgress(a.progress()),
		loader.WithPrintAllFiles(*list),
		loader.WithSourceColumn(a.cfg.SourceColumn),
		loader.WithReadOptions(a.readOptions()...),
	}

	if !*merge {
		files, err := loader.LoadFiles(dir, loader.Pattern(pattern), opts...)
		if err != nil {
			return err
		}
		for _, name := range files.Names() {
			t := files[name]
			fmt.Fprintf(a.stdout, "%s\t%d rows\t%d columns\n", name, t.NumRows(), t.NumCols())
		}
		return nil
	}

	merged, err := loader.LoadMerged(dir, loader.Pattern(pattern), opts...)
	if err != nil {
		return err
	}
	if *dedup != "" {
		var columns []string
		if *dedup != "*" {
			columns = splitList(*dedup)
		}
		merged, _, err = preprocessing.RemoveDuplicateRows(merged, columns,
			preprocessing.WithLogger(log.GetLoggerWithName("preprocessing")))
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(a.stdout, "%d rows\t%d columns\n", merged.NumRows(), merged.NumCols())
	if *out == "" {
		return nil
	}
	return writeTable(*out, merged)
}

func writeTable(path string, t *frame.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := frame.WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return errors.WithStack(f.Close())
}

// check returns false when any file lacks a column or cannot be read.
func (a *app) check(args []string) (bool, error) {
	fs := newFlagSet("check", a.stderr)
	columns := fs.String("columns", "", "comma separated required columns")
	if err := fs.Parse(args); err != nil {
		return false, err
	}
	required := splitList(*columns)
	if len(required) == 0 {
		return false, errors.NewValidationError("columns", "at least one column is required", *columns)
	}
	if fs.NArg() == 0 {
		return false, errors.NewValidationError("files", "at least one file is required", nil)
	}

	tables := make([]*frame.Table, 0, fs.NArg())
	for _, path := range fs.Args() {
		t, err := loader.ReadFile(path, a.readOptions()...)
		if err != nil {
			a.logger.Error("Can not open file", errors.NewFileReadError(path, err), log.FilePathKey, path)
			fmt.Fprintf(a.stdout, "%s\tunreadable\n", path)
			tables = append(tables, nil)
			continue
		}
		if missing := preprocessing.MissingColumns(required, t); len(missing) > 0 {
			fmt.Fprintf(a.stdout, "%s\tmissing %s\n", path, strings.Join(missing, ","))
		} else {
			fmt.Fprintf(a.stdout, "%s\tok\n", path)
		}
		tables = append(tables, t)
	}
	return preprocessing.CheckColumnsExist(required, tables...), nil
}

func (a *app) dataset(args []string) error {
	fs := newFlagSet("dataset", a.stderr)
	columns := fs.String("columns", "", "comma separated columns to convert (default all)")
	name := fs.String("name", fit.DefaultName, "dataset name and title")
	out := fs.String("out", "", "save the dataset to this file")
	hist := fs.String("hist", "", "var=path: plot a histogram of var to path")
	bins := fs.Int("bins", 50, "histogram bins")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.NewValidationError("file", "exactly one input file is required", fs.Args())
	}

	t, err := loader.ReadFile(fs.Arg(0), a.readOptions()...)
	if err != nil {
		return errors.NewFileReadError(fs.Arg(0), err)
	}
	ds, err := fit.FromTable(t, splitList(*columns),
		fit.WithName(*name), fit.WithTitle(*name),
		fit.WithProgress(a.progress()),
		fit.WithLogger(log.GetLoggerWithName("fit")))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s: %d entries\n", ds.Name(), ds.NumEntries())
	vars := ds.Vars()
	for i := 0; i < vars.Len(); i++ {
		v := vars.At(i)
		mean, _ := ds.Mean(v.Name)
		sigma, _ := ds.Sigma(v.Name)
		fmt.Fprintf(a.stdout, "  %s\t[%g, %g]\tmean=%g\tsigma=%g\n", v.Name, v.Min, v.Max, mean, sigma)
	}

	if *out != "" {
		if err := fit.SaveDatasetFile(ds, *out); err != nil {
			return err
		}
	}
	if *hist != "" {
		variable, path, ok := strings.Cut(*hist, "=")
		if !ok || variable == "" || path == "" {
			return errors.NewValidationError("hist", "must be var=path", *hist)
		}
		if err := fit.PlotHistogram(ds, variable, *bins, path); err != nil {
			return err
		}
	}
	return nil
}
