package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/greenledger/pcfcalc/internal/logging"
)

// resolvedProjectDir holds the project directory chosen for the current CLI
// invocation.
var (
	resolvedProjectDir   string       //nolint:gochecknoglobals // Set once at startup, read by config commands
	resolvedProjectDirMu sync.RWMutex //nolint:gochecknoglobals // Protects resolvedProjectDir
)

// SetResolvedProjectDir stores the resolved project directory.
func SetResolvedProjectDir(dir string) {
	resolvedProjectDirMu.Lock()
	defer resolvedProjectDirMu.Unlock()
	resolvedProjectDir = dir
}

// GetResolvedProjectDir returns the stored resolved project directory.
func GetResolvedProjectDir() string {
	resolvedProjectDirMu.RLock()
	defer resolvedProjectDirMu.RUnlock()
	return resolvedProjectDir
}

// ResolveProjectDir determines the project-local .pcfcalc directory path.
// It checks (in order):
//  1. flagValue (--project-dir CLI flag)
//  2. PCFCALC_PROJECT_DIR env var
//  3. the nearest ancestor of startDir that contains a .pcfcalc directory
//
// Returns an absolute path, or the empty string if no project is found.
// Does not create the directory.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}

	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, dirName)
		if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// NewWithProjectDir creates a Config from the global file, shallow-merges
// projectDir/config.yaml on top, then applies environment overrides. A
// missing or broken project file leaves the global config in effect.
func NewWithProjectDir(ctx context.Context, projectDir string) *Config {
	cfg := New()
	if projectDir == "" {
		return cfg
	}

	overlayPath := filepath.Join(projectDir, fileName)
	if _, err := os.Stat(overlayPath); err != nil {
		return cfg
	}

	merged := New()
	if err := ShallowMergeYAML(merged, overlayPath); err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(err).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using global config")
		return cfg
	}
	// Environment still wins over the project file.
	merged.applyEnvOverrides()
	return merged
}

// toAbsProjectDir converts dir to an absolute path and appends ".pcfcalc"
// unless it already ends with it.
func toAbsProjectDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}

	if filepath.Base(abs) == dirName {
		return abs
	}
	return filepath.Join(abs, dirName)
}

// ProjectConfigPath returns the overlay file inside a project directory.
func ProjectConfigPath(projectDir string) string {
	return filepath.Join(projectDir, fileName)
}
