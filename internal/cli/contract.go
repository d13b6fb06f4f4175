package cli

import (
	"github.com/spf13/cobra"

	"github.com/greenledger/pcfcalc/internal/ingest"
	"github.com/greenledger/pcfcalc/internal/report"
)

// contractParams holds the flags of the contract command.
type contractParams struct {
	output  outputFlags
	year    int
	noLabor bool
}

// NewContractCmd creates the "contract" command, which rolls every product
// of an activity file and its labor allocation into one grand total.
func NewContractCmd() *cobra.Command {
	var params contractParams

	cmd := &cobra.Command{
		Use:   "contract FILE",
		Short: "Calculate the comprehensive footprint of a contract",
		Long: `Evaluates every product of an activity file concurrently and sums them in
file order, then adds the labor allocation when the file has a labor block.

The contract year (--year, else the file's year, else the configured year)
selects the electricity factor used for labor mode B.`,
		Example: `  # Contract summary table
  pcfcalc contract activity.yaml

  # Comprehensive Excel report
  pcfcalc contract activity.yaml --output xlsx --out report.xlsx

  # Products only, as CSV on stdout
  pcfcalc contract activity.yaml --no-labor --output csv --out -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeContract(cmd, args[0], &params)
		},
	}

	params.output.register(cmd, allOutputFormats)
	cmd.Flags().IntVar(&params.year, "year", 0, "contract assessment year (default from file or configuration)")
	cmd.Flags().BoolVar(&params.noLabor, "no-labor", false, "ignore the labor block of the file")

	return cmd
}

func executeContract(cmd *cobra.Command, path string, params *contractParams) error {
	ctx := cmd.Context()

	format, precision, err := params.output.resolve(allOutputFormats)
	if err != nil {
		return err
	}
	act, err := ingest.Load(ctx, path)
	if err != nil {
		return err
	}
	eng, err := newEngine(ctx)
	if err != nil {
		return err
	}

	year := params.year
	if year == 0 {
		year = act.Year
	}
	labor := act.Labor
	if params.noLabor {
		labor = nil
	}
	res, err := eng.Evaluate(ctx, &act.Contract, labor, year)
	if err != nil {
		return err
	}

	switch format {
	case outputJSON:
		return report.WriteJSON(cmd.OutOrStdout(), report.KindContract, res, report.Options{})
	case outputCSV, outputXLSX:
		d := report.ContractDocument(res, labor, report.Options{Precision: precision})
		return params.output.writeDocument(cmd, format, d, act.Contract.ID)
	default:
		return report.RenderContract(cmd.OutOrStdout(), res, tableOptions(cmd, precision))
	}
}
