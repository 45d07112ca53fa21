// Package config loads process-level settings for the hepkit command.
//
// Settings come from, in order of precedence:
//
//	1. HEPKIT_* environment variables
//	2. a YAML file named by HEPKIT_CONFIG_FILE, if set
//	3. defaults
package config

import (
	"os"
	"unicode/utf8"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/YuminosukeSato/hepkit/pkg/errors"
	"github.com/YuminosukeSato/hepkit/pkg/log"
)

// Prefix is the environment variable prefix.
const Prefix = "HEPKIT"

// FileEnv names the variable holding the optional YAML file path.
const FileEnv = Prefix + "_CONFIG_FILE"

// Config holds the command settings.
type Config struct {
	LogLevel     string `yaml:"log_level" envconfig:"LOG_LEVEL" default:"info"`
	LogFormat    string `yaml:"log_format" envconfig:"LOG_FORMAT" default:"console"`
	SourceColumn string `yaml:"source_column" envconfig:"SOURCE_COLUMN" default:"filesource"`
	Progress     bool   `yaml:"progress" envconfig:"PROGRESS" default:"true"`
	Delimiter    string `yaml:"delimiter" envconfig:"DELIMITER" default:","`
}

// fileConfig mirrors Config with pointers so absent keys are distinguishable.
type fileConfig struct {
	LogLevel     *string `yaml:"log_level"`
	LogFormat    *string `yaml:"log_format"`
	SourceColumn *string `yaml:"source_column"`
	Progress     *bool   `yaml:"progress"`
	Delimiter    *string `yaml:"delimiter"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    log.FormatConsole,
		SourceColumn: "filesource",
		Progress:     true,
		Delimiter:    ",",
	}
}

// Load reads the configuration from the environment and the optional file,
// then validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to load config from env")
	}

	if path := os.Getenv(FileEnv); path != "" {
		fc, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		cfg.applyFile(fc)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

func loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	return &fc, nil
}

// applyFile copies file values for every setting the environment left unset.
func (c *Config) applyFile(fc *fileConfig) {
	setString := func(env string, dst *string, src *string) {
		if _, ok := os.LookupEnv(Prefix + "_" + env); !ok && src != nil {
			*dst = *src
		}
	}
	setString("LOG_LEVEL", &c.LogLevel, fc.LogLevel)
	setString("LOG_FORMAT", &c.LogFormat, fc.LogFormat)
	setString("SOURCE_COLUMN", &c.SourceColumn, fc.SourceColumn)
	setString("DELIMITER", &c.Delimiter, fc.Delimiter)
	if _, ok := os.LookupEnv(Prefix + "_PROGRESS"); !ok && fc.Progress != nil {
		c.Progress = *fc.Progress
	}
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != log.FormatConsole && c.LogFormat != log.FormatJSON {
		return errors.NewValidationError("log_format", "must be console or json", c.LogFormat)
	}
	if c.SourceColumn == "" {
		return errors.NewValidationError("source_column", "must not be empty", c.SourceColumn)
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return errors.NewValidationError("delimiter", "must be a single character", c.Delimiter)
	}
	switch r := c.Comma(); r {
	case '\r', '\n', '"', utf8.RuneError:
		return errors.NewValidationError("delimiter", "not usable as a field separator", c.Delimiter)
	}
	return nil
}

// Comma returns the delimiter as a rune.
func (c *Config) Comma() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}
