// Package config holds pcfcalc's user configuration: output defaults,
// calculation policy, reference data sources and logging.
//
// The global file lives at $PCFCALC_HOME/config.yaml (default
// ~/.pcfcalc/config.yaml). A project-local .pcfcalc/config.yaml is
// shallow-merged on top, and PCFCALC_* environment variables win over both.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/greenledger/pcfcalc/internal/cache"
	"github.com/greenledger/pcfcalc/internal/emissions"
)

// Default values applied by New before any file or environment override.
const (
	DefaultOutputFormat = "table"
	DefaultPrecision    = 4
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
	DefaultWorkers      = 4

	maxPrecision = 10
	dirName      = ".pcfcalc"
	fileName     = "config.yaml"
)

//nolint:gochecknoglobals // Compile-time constant lookup tables.
var (
	validOutputFormats = []string{"table", "json", "csv", "xlsx"}
	validLogLevels     = []string{"trace", "debug", "info", "warn", "error"}
	validLogFormats    = []string{"json", "console", "text"}
)

var (
	// ErrInvalidConfig is wrapped by every Validate failure.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownKey is returned by Get and Set for an unsupported key.
	ErrUnknownKey = errors.New("unknown configuration key")
)

// Config is the complete pcfcalc configuration.
type Config struct {
	Output      OutputConfig      `yaml:"output"`
	Calculation CalculationConfig `yaml:"calculation"`
	Factors     FactorsConfig     `yaml:"factors"`
	Cache       CacheConfig       `yaml:"cache"`
	Logging     LoggingConfig     `yaml:"logging"`

	path string
}

// OutputConfig controls how results are rendered.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	// Precision is the number of decimals written to reports.
	Precision int `yaml:"precision"`
}

// CalculationConfig selects calculation policy.
type CalculationConfig struct {
	// Year is the assessment year used when a product or document has none.
	Year int `yaml:"year"`
	// ManufacturingFactorSource is "fixed" or "year".
	ManufacturingFactorSource string  `yaml:"manufacturing_factor_source"`
	ManufacturingFixedFactor  float64 `yaml:"manufacturing_fixed_factor"`
	// Workers bounds concurrent product evaluation in contract rollups.
	Workers int `yaml:"workers"`
}

// FactorsConfig points at optional reference data overrides.
type FactorsConfig struct {
	// Dataset is a YAML dataset file overlaid on the built-in factors.
	Dataset string `yaml:"dataset,omitempty"`
	// MaterialsSheet is a CSV or XLSX material sheet that replaces the
	// material table.
	MaterialsSheet string `yaml:"materials_sheet,omitempty"`
	SheetIDBase    int    `yaml:"sheet_id_base"`
}

// CacheConfig controls the parsed material sheet cache.
type CacheConfig struct {
	Enabled    bool `yaml:"enabled"`
	TTLSeconds int  `yaml:"ttl_seconds"`
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// Defaults returns a Config holding only built-in defaults.
func Defaults() *Config {
	return &Config{
		Output: OutputConfig{
			DefaultFormat: DefaultOutputFormat,
			Precision:     DefaultPrecision,
		},
		Calculation: CalculationConfig{
			Year:                      emissions.DefaultYear,
			ManufacturingFactorSource: string(emissions.ManufacturingFactorFixed),
			ManufacturingFixedFactor:  emissions.DefaultManufacturingFactor,
			Workers:                   DefaultWorkers,
		},
		Factors: FactorsConfig{
			SheetIDBase: 1000,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: cache.DefaultTTLSeconds,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		path: ConfigPath(),
	}
}

// New returns the defaults overlaid with the global config file, when one
// exists and parses, and then with environment overrides.
func New() *Config {
	cfg := Defaults()
	_ = cfg.loadFile(cfg.path)
	cfg.applyEnvOverrides()
	return cfg
}

// Load reads the config file at path over the defaults. Unlike New it
// reports a missing or malformed file, and it does not apply environment
// overrides.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	cfg.path = path
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// Dir returns the pcfcalc home directory.
func Dir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return dirName
	}
	return filepath.Join(userHome, dirName)
}

// CacheDir returns the directory of the material sheet cache.
func CacheDir() string {
	return filepath.Join(Dir(), "cache")
}

// ConfigPath returns the global config file location.
func ConfigPath() string {
	return filepath.Join(Dir(), fileName)
}

// Path returns the file this config is saved to.
func (c *Config) Path() string { return c.path }

// SetPath changes the file Save writes to.
func (c *Config) SetPath(path string) { c.path = path }

// Save writes the config to its path, creating the directory if needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err = os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.path, err)
	}
	return nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}

// Validate checks every setting and returns the first problem found.
func (c *Config) Validate() error {
	if !slices.Contains(validOutputFormats, c.Output.DefaultFormat) {
		return fmt.Errorf("%w: output.default_format %q (want one of %s)",
			ErrInvalidConfig, c.Output.DefaultFormat, strings.Join(validOutputFormats, ", "))
	}
	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		return fmt.Errorf("%w: output.precision %d out of range 0..%d",
			ErrInvalidConfig, c.Output.Precision, maxPrecision)
	}
	if c.Calculation.Year < 0 {
		return fmt.Errorf("%w: calculation.year %d", ErrInvalidConfig, c.Calculation.Year)
	}
	if _, err := emissions.ParseManufacturingFactorPolicy(c.Calculation.ManufacturingFactorSource); err != nil {
		return fmt.Errorf("%w: calculation.manufacturing_factor_source: %w", ErrInvalidConfig, err)
	}
	if c.Calculation.ManufacturingFixedFactor <= 0 {
		return fmt.Errorf("%w: calculation.manufacturing_fixed_factor must be positive",
			ErrInvalidConfig)
	}
	if c.Calculation.Workers < 1 {
		return fmt.Errorf("%w: calculation.workers must be at least 1", ErrInvalidConfig)
	}
	if err := cache.ValidateTTL(c.Cache.TTLSeconds); err != nil {
		return fmt.Errorf("%w: cache.ttl_seconds: %w", ErrInvalidConfig, err)
	}
	if !slices.Contains(validLogLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}
	if !slices.Contains(validLogFormats, c.Logging.Format) {
		return fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// FactorPolicy returns the parsed manufacturing factor policy. An
// unrecognised source is an error rather than a silent fallback to the
// fixed factor.
func (c *Config) FactorPolicy() (emissions.ManufacturingFactorPolicy, error) {
	p, err := emissions.ParseManufacturingFactorPolicy(c.Calculation.ManufacturingFactorSource)
	if err != nil {
		return "", fmt.Errorf("%w: calculation.manufacturing_factor_source: %w", ErrInvalidConfig, err)
	}
	return p, nil
}

// Keys lists the keys accepted by Get and Set.
func Keys() []string {
	return []string{
		"output.default_format",
		"output.precision",
		"calculation.year",
		"calculation.manufacturing_factor_source",
		"calculation.manufacturing_fixed_factor",
		"calculation.workers",
		"factors.dataset",
		"factors.materials_sheet",
		"factors.sheet_id_base",
		"cache.enabled",
		"cache.ttl_seconds",
		"logging.level",
		"logging.format",
		"logging.file",
	}
}

// Get returns the string form of a dotted key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "output.default_format":
		return c.Output.DefaultFormat, nil
	case "output.precision":
		return strconv.Itoa(c.Output.Precision), nil
	case "calculation.year":
		return strconv.Itoa(c.Calculation.Year), nil
	case "calculation.manufacturing_factor_source":
		return c.Calculation.ManufacturingFactorSource, nil
	case "calculation.manufacturing_fixed_factor":
		return strconv.FormatFloat(c.Calculation.ManufacturingFixedFactor, 'g', -1, 64), nil
	case "calculation.workers":
		return strconv.Itoa(c.Calculation.Workers), nil
	case "factors.dataset":
		return c.Factors.Dataset, nil
	case "factors.materials_sheet":
		return c.Factors.MaterialsSheet, nil
	case "factors.sheet_id_base":
		return strconv.Itoa(c.Factors.SheetIDBase), nil
	case "cache.enabled":
		return strconv.FormatBool(c.Cache.Enabled), nil
	case "cache.ttl_seconds":
		return strconv.Itoa(c.Cache.TTLSeconds), nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "logging.file":
		return c.Logging.File, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set assigns a dotted key from its string form. The result is not
// validated; call Validate before saving.
func (c *Config) Set(key, value string) error {
	var err error
	switch key {
	case "output.default_format":
		c.Output.DefaultFormat = value
	case "output.precision":
		c.Output.Precision, err = strconv.Atoi(value)
	case "calculation.year":
		c.Calculation.Year, err = strconv.Atoi(value)
	case "calculation.manufacturing_factor_source":
		c.Calculation.ManufacturingFactorSource = value
	case "calculation.manufacturing_fixed_factor":
		c.Calculation.ManufacturingFixedFactor, err = strconv.ParseFloat(value, 64)
	case "calculation.workers":
		c.Calculation.Workers, err = strconv.Atoi(value)
	case "factors.dataset":
		c.Factors.Dataset = value
	case "factors.materials_sheet":
		c.Factors.MaterialsSheet = value
	case "factors.sheet_id_base":
		c.Factors.SheetIDBase, err = strconv.Atoi(value)
	case "cache.enabled":
		c.Cache.Enabled, err = strconv.ParseBool(value)
	case "cache.ttl_seconds":
		// Accepts durations such as "12h" as well as seconds.
		c.Cache.TTLSeconds, err = cache.ParseTTL(value)
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	case "logging.file":
		c.Logging.File = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}
