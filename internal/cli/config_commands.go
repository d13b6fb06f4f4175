package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/greenledger/pcfcalc/internal/config"
)

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration after files and environment are merged.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "# global: %s\n", config.ConfigPath())
			if dir := config.GetResolvedProjectDir(); dir != "" {
				_, _ = fmt.Fprintf(w, "# project: %s\n", config.ProjectConfigPath(dir))
			}
			_, err = w.Write(data)
			return err
		},
	}
}

// NewConfigGetCmd creates the config get command.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print one effective configuration value",
		Long:  "Prints one value of the effective configuration.\n\nKeys:\n  " + strings.Join(config.Keys(), "\n  "),
		Example: `  pcfcalc config get output.precision
  pcfcalc config get calculation.manufacturing_factor_source`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
			return err
		},
	}
}

// NewConfigSetCmd creates the config set command. It edits the global file,
// or the project file with --project, and refuses values that fail
// validation.
func NewConfigSetCmd() *cobra.Command {
	var project bool

	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Sets one value in the configuration file and saves it.\n\nKeys:\n  " + strings.Join(config.Keys(), "\n  "),
		Example: `  pcfcalc config set output.default_format csv
  pcfcalc config set calculation.manufacturing_factor_source year
  pcfcalc config set factors.materials_sheet ./materials.xlsx --project`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigPath()
			if project {
				dir := config.GetResolvedProjectDir()
				if dir == "" {
					return errors.New("no project directory found; run 'pcfcalc config init --project' first")
				}
				path = config.ProjectConfigPath(dir)
			}

			cfg, err := loadEditableConfig(path)
			if err != nil {
				return err
			}
			if err = cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err = cfg.Validate(); err != nil {
				return err
			}
			if err = cfg.Save(); err != nil {
				return err
			}
			cmd.Printf("Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&project, "project", false, "edit the project-local configuration file")
	return cmd
}

// loadEditableConfig reads the file at path without environment overrides,
// so saving it does not persist them. A missing file starts from defaults.
func loadEditableConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := config.Defaults()
		cfg.SetPath(path)
		return cfg, nil
	}
	return config.Load(path)
}

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Validates the merged configuration (global file, project file and
environment) and checks that the configured dataset and material sheet load.`,
		Example: `  # Validate current configuration
  pcfcalc config validate

  # Validate and show detailed information
  pcfcalc config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	eng, err := newEngine(cmd.Context())
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(w, "Configuration is valid")

	if verbose {
		set := eng.Factors()
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Configuration details:")
		_, _ = fmt.Fprintf(w, "  Output format: %s\n", cfg.Output.DefaultFormat)
		_, _ = fmt.Fprintf(w, "  Output precision: %d\n", cfg.Output.Precision)
		_, _ = fmt.Fprintf(w, "  Assessment year: %d\n", cfg.Calculation.Year)
		_, _ = fmt.Fprintf(w, "  Manufacturing factor: %s\n", eng.Calculator().Policy())
		_, _ = fmt.Fprintf(w, "  Workers: %d\n", cfg.Calculation.Workers)
		_, _ = fmt.Fprintf(w, "  Materials: %d, vehicles: %d, electricity years: %d\n",
			set.Materials.Len(), set.Transport.Len(), len(set.Electricity))
		_, _ = fmt.Fprintf(w, "  Logging level: %s\n", cfg.Logging.Level)
		if cfg.Logging.File != "" {
			_, _ = fmt.Fprintf(w, "  Log file: %s\n", cfg.Logging.File)
		}
	}

	return nil
}
