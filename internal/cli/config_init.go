package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/greenledger/pcfcalc/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
// With --project it creates a project-local .pcfcalc/ directory with
// config.yaml and .gitignore in the resolved project directory (or the
// working directory). Otherwise it creates the global ~/.pcfcalc/config.yaml.
func NewConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

With --project, creates project-local configuration at ./.pcfcalc/config.yaml
(or in the directory given by --project-dir) with a .gitignore that keeps
generated reports and local secrets out of version control.`,
		Example: `  # Create global configuration
  pcfcalc config init

  # Create project-local configuration
  pcfcalc config init --project

  # Create configuration, overwriting existing
  pcfcalc config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if project {
				projectDir := config.GetResolvedProjectDir()
				if projectDir == "" {
					wd, err := os.Getwd()
					if err != nil {
						return fmt.Errorf("resolving working directory: %w", err)
					}
					projectDir = config.ResolveProjectDir(cmd.Context(), wd, wd)
				}
				return initProjectConfig(cmd, projectDir, force)
			}
			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&project, "project", false, "create project-local configuration instead of the global file")

	return cmd
}

// initProjectConfig creates project-local config at projectDir/config.yaml with .gitignore.
func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := config.ProjectConfigPath(projectDir)

	if err := checkConfigAbsent(configPath, force); err != nil {
		return err
	}

	if err := os.MkdirAll(projectDir, 0o750); err != nil {
		return fmt.Errorf("failed to create project config directory: %w", err)
	}

	cfg := config.Defaults()
	cfg.SetPath(configPath)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	// Create .gitignore (never overwrites existing)
	created, err := config.EnsureGitignore(projectDir)
	if err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", configPath)
	if created {
		cmd.Printf("Created %s to keep reports and secrets out of version control\n",
			filepath.Join(projectDir, ".gitignore"))
	}

	return nil
}

// initGlobalConfig creates global config at ~/.pcfcalc/config.yaml.
func initGlobalConfig(cmd *cobra.Command, force bool) error {
	cfg := config.Defaults()

	if err := checkConfigAbsent(cfg.Path(), force); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", cfg.Path())

	return nil
}

func checkConfigAbsent(path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return errors.New("configuration file already exists, use --force to overwrite")
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	}
	return nil
}
