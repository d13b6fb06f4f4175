// Package cli implements the pcfcalc command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/greenledger/pcfcalc/internal/config"
	"github.com/greenledger/pcfcalc/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// dotEnvFile is loaded from the working directory before configuration.
const dotEnvFile = ".env"

// NewRootCmd creates the root Cobra command for the pcfcalc CLI.
// It resolves configuration, wires up logging and tracing, and registers
// the calculation, reference data and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:   "pcfcalc",
		Short: "Product carbon footprint calculator",
		Long: `pcfcalc computes cradle-to-gate product carbon footprints (kgCO2e) from
activity data: raw materials, upstream transport, manufacturing electricity
and distribution, plus labor-hour allocation of company emissions.`,
		Version:      ver,
		Example:      rootCmdExample,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(dotEnvFile); err != nil {
				cmd.PrintErrf("Warning: %v\n", err)
			}
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd, cfg.Logging)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "use this config file instead of ~/.pcfcalc/config.yaml")
	cmd.PersistentFlags().String("project-dir", "", "project directory holding .pcfcalc/config.yaml")
	cmd.AddCommand(
		NewProductCmd(), NewContractCmd(), NewLaborCmd(), NewFuelCmd(),
		NewValidateCmd(), NewInitCmd(), newFactorsCmd(), newCacheCmd(), newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Create a starter activity file
  pcfcalc init activity.yaml

  # Footprint of every product in a file
  pcfcalc product activity.yaml

  # Contract rollup with labor, as an Excel report
  pcfcalc contract activity.yaml --output xlsx --out contract.xlsx

  # Check that upstream transport covers every material
  pcfcalc validate activity.yaml --strict

  # Fuel combustion emissions
  pcfcalc fuel --type diesel_mobile --liters 120

  # Set configuration values
  pcfcalc config set calculation.manufacturing_factor_source year`

// resolveConfig picks the configuration for this invocation: an explicit
// --config file, or the global file with the project overlay merged on top.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}

	flagDir, _ := cmd.Flags().GetString("project-dir")
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	projectDir := config.ResolveProjectDir(cmd.Context(), flagDir, wd)
	config.SetResolvedProjectDir(projectDir)
	return config.NewWithProjectDir(cmd.Context(), projectDir), nil
}

// newFactorsCmd creates the factors command group.
func newFactorsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "factors", Short: "Reference emission factor commands"}
	cmd.AddCommand(NewFactorsListCmd(), NewFactorsExportCmd())
	return cmd
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Material sheet cache commands"}
	cmd.AddCommand(NewCacheInfoCmd(), NewCacheClearCmd())
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigShowCmd(), NewConfigGetCmd(),
		NewConfigSetCmd(), NewConfigValidateCmd(),
	)
	return cmd
}
