package loader

import (
	"io"
	"os"

	"github.com/YuminosukeSato/hepkit/frame"
	"github.com/YuminosukeSato/hepkit/pkg/log"
)

// DefaultSourceColumn is the column LoadMerged fills with each row's file name.
const DefaultSourceColumn = "filesource"

// Option configures LoadFiles and LoadMerged.
type Option func(*config)

type config struct {
	logger        log.Logger
	progress      io.Writer
	printAllFiles bool
	sourceColumn  string
	readOptions   []frame.ReadOption
}

func newConfig(opts []Option) *config {
	cfg := &config{
		progress:     os.Stdout,
		sourceColumn: DefaultSourceColumn,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLoggerWithName("loader")
	}
	return cfg
}

// WithLogger sets the logger used for counts and per-file errors.
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithProgress sets where progress bars are drawn. nil disables them.
func WithProgress(w io.Writer) Option {
	return func(c *config) {
		c.progress = w
	}
}

// WithPrintAllFiles logs the names of all matching files before loading.
func WithPrintAllFiles(print bool) Option {
	return func(c *config) {
		c.printAllFiles = print
	}
}

// WithSourceColumn sets the column LoadMerged records file names in.
func WithSourceColumn(name string) Option {
	return func(c *config) {
		c.sourceColumn = name
	}
}

// WithReadOptions passes options to the CSV and spreadsheet readers.
func WithReadOptions(opts ...frame.ReadOption) Option {
	return func(c *config) {
		c.readOptions = append(c.readOptions, opts...)
	}
}
