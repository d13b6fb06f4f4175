package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/greenledger/pcfcalc/internal/config"
	"github.com/greenledger/pcfcalc/internal/ingest"
)

// defaultActivityFile is written by "init" when no path is given.
const defaultActivityFile = "activity.yaml"

// NewInitCmd creates the "init" command, which writes a starter activity
// file holding one product with default values.
func NewInitCmd() *cobra.Command {
	var (
		force bool
		year  int
	)

	cmd := &cobra.Command{
		Use:   "init [FILE]",
		Short: "Create a starter activity file",
		Long: `Writes a YAML activity file with one contract, one product and a labor
block. The product starts with per-unit manufacturing over a 1000-unit run
and one 100 kg, 50 km heavy-truck delivery leg.`,
		Example: `  pcfcalc init
  pcfcalc init router.yaml --year 2024`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultActivityFile
			if len(args) == 1 {
				path = args[0]
			}
			if year == 0 {
				year = config.GetYear()
			}
			data, err := ingest.Template(year)
			if err != nil {
				return err
			}
			if err = writeNewFile(path, data, force); err != nil {
				return err
			}
			cmd.Printf("Activity file created at %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().IntVar(&year, "year", 0, "assessment year (default from configuration)")

	return cmd
}

// writeNewFile writes data to path, refusing to replace an existing file
// unless overwrite is set.
func writeNewFile(path string, data []byte, overwrite bool) error {
	if !overwrite {
		_, err := os.Stat(path)
		if err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("cannot access %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
