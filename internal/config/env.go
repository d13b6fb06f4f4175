package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by applyEnvOverrides.
const (
	EnvHome         = "PCFCALC_HOME"
	EnvProjectDir   = "PCFCALC_PROJECT_DIR"
	EnvLogLevel     = "PCFCALC_LOG_LEVEL"
	EnvLogFormat    = "PCFCALC_LOG_FORMAT"
	EnvOutputFormat = "PCFCALC_OUTPUT_FORMAT"
	EnvYear         = "PCFCALC_YEAR"
	EnvCacheEnabled = "PCFCALC_CACHE_ENABLED"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set keep their values. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = v
	}
	if v := os.Getenv(EnvYear); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			c.Calculation.Year = year
		}
	}
	if v := os.Getenv(EnvCacheEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = enabled
		}
	}
}
