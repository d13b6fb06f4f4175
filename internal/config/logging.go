package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/greenledger/pcfcalc/internal/logging"
)

// ToLoggingConfig converts the logging section into a logging.Config.
//
// The conversion applies these rules:
//   - Level is copied directly
//   - Format "text" is an alias for "console"
//   - If File is set, Output becomes "file" and File is passed through
//   - If File is empty, Output defaults to "stderr"
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}
	format := lc.Format
	if format == "text" {
		format = logging.FormatConsole
	}

	return logging.Config{
		Level:  lc.Level,
		Format: format,
		Output: output,
		File:   lc.File,
	}
}

// EnsureLogDir creates the parent directory of the configured log file.
func (lc *LoggingConfig) EnsureLogDir() error {
	if lc.File == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(lc.File), 0o750); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	return nil
}

// GetLoggingConfig returns the Logging section of the global configuration.
// Flag overrides such as --debug are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	return GetGlobalConfig().Logging
}
