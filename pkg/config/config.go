package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	jsonparser "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

// Config holds all configuration options for benford.
type Config struct {
	// Scan settings
	Scan ScanConfig `koanf:"scan" toml:"scan"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Report settings
	Report ReportConfig `koanf:"report" toml:"report"`
}

// ScanConfig controls how files are enumerated and measured.
type ScanConfig struct {
	Workers        int   `koanf:"workers" toml:"workers"`
	Complexity     bool  `koanf:"complexity" toml:"complexity"`
	SkipDuplicates bool  `koanf:"skip_duplicates" toml:"skip_duplicates"`
	FileTimeout    int   `koanf:"file_timeout" toml:"file_timeout"`   // seconds, 0 = none
	MaxFileSize    int64 `koanf:"max_file_size" toml:"max_file_size"` // bytes, 0 = none
}

// Timeout returns the per-file timeout as a duration.
func (s ScanConfig) Timeout() time.Duration {
	return time.Duration(s.FileTimeout) * time.Second
}

// ExcludeConfig defines file exclusion. Nothing is excluded by default.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore"`
}

// ReportConfig controls which languages are reported and how.
type ReportConfig struct {
	Languages []string `koanf:"languages" toml:"languages"`
	Format    string   `koanf:"format" toml:"format"` // text, json, markdown, toon, yaml
	Color     bool     `koanf:"color" toml:"color"`
}

// DefaultWorkers matches the pool size of the original LOC script.
const DefaultWorkers = 10

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Workers:        DefaultWorkers,
			Complexity:     true,
			SkipDuplicates: true,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{},
		},
		Report: ReportConfig{
			Languages: []string{},
			Format:    "text",
			Color:     true,
		},
	}
}

// ValidationError reports a config file that does not match the schema.
type ValidationError struct {
	Source string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config %s: %v", e.Source, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks the settings that the schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.Scan.Workers < 1 {
		errs = append(errs, fmt.Errorf("scan.workers must be at least 1, got %d", c.Scan.Workers))
	}
	if c.Scan.FileTimeout < 0 {
		errs = append(errs, fmt.Errorf("scan.file_timeout must not be negative, got %d", c.Scan.FileTimeout))
	}
	if c.Scan.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("scan.max_file_size must not be negative, got %d", c.Scan.MaxFileSize))
	}
	return errors.Join(errs...)
}

// LoadResult is a loaded config and the file it came from.
type LoadResult struct {
	Config *Config
	// Source is empty when no config file was found.
	Source string
}

type loadOptions struct {
	path string
	dirs []string
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

// WithPath loads the given file instead of searching the default locations.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithSearchDirs overrides the directories searched for a config file.
func WithSearchDirs(dirs ...string) LoadOption {
	return func(o *loadOptions) {
		o.dirs = dirs
	}
}

// configNames are searched in order in each search directory.
var configNames = []string{
	"benford.toml",
	"benford.yaml",
	"benford.yml",
	"benford.json",
	".benford.toml",
	".benford.yaml",
	".benford.yml",
	".benford.json",
}

// LoadConfig loads the config named by WithPath, or the first config found
// in the search directories, or the defaults.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	o := &loadOptions{dirs: []string{".", ".benford"}}
	for _, opt := range opts {
		opt(o)
	}

	if o.path != "" {
		cfg, err := Load(o.path)
		if err != nil {
			return nil, err
		}
		return &LoadResult{Config: cfg, Source: o.path}, nil
	}

	for _, dir := range o.dirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				return nil, err
			}
			return &LoadResult{Config: cfg, Source: path}, nil
		}
	}

	return &LoadResult{Config: DefaultConfig()}, nil
}

// Load loads configuration from a file, layering it over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if err := validateSchema(k.Raw()); err != nil {
		return nil, &ValidationError{Source: path, Err: err}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ValidationError{Source: path, Err: err}
	}

	return cfg, nil
}

// parserFor picks the koanf parser from the file extension.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return jsonparser.Parser()
	default:
		return toml.Parser()
	}
}

// schema compiles the embedded schema once.
var schema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("benford.schema.json", doc); err != nil {
		return nil, err
	}
	return c.Compile("benford.schema.json")
})

// validateSchema round-trips the raw koanf map through JSON so that values
// from every parser are checked with the same number and string types.
func validateSchema(raw map[string]any) error {
	sch, err := schema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return sch.Validate(inst)
}
