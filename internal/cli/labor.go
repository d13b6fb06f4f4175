package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/greenledger/pcfcalc/internal/emissions"
	"github.com/greenledger/pcfcalc/internal/report"
)

// laborParams holds the flags of the labor command.
type laborParams struct {
	output     outputFlags
	mode       string
	contractID string
	year       int
	inputs     emissions.LaborInputs
}

// laborResult is the JSON form of a labor calculation.
type laborResult struct {
	Year              int                   `json:"year"`
	ElectricityFactor float64               `json:"electricityFactor"`
	Inputs            emissions.LaborInputs `json:"inputs"`
	Result            emissions.LaborResult `json:"result"`
}

// NewLaborCmd creates the "labor" command, which allocates company-wide
// emissions to a contract by hours worked.
func NewLaborCmd() *cobra.Command {
	var params laborParams

	cmd := &cobra.Command{
		Use:   "labor",
		Short: "Allocate installation and labor emissions by hours",
		Long: `Allocates company emissions to a contract in proportion to
contract hours / company hours.

Mode A takes the company total directly (--total-emissions). Mode B derives
it from electricity and fuel use; electricity is weighted with the factor of
--year.`,
		Example: `  # Mode A: reported company total
  pcfcalc labor --mode A --contract-hours 100 --company-hours 2000 --total-emissions 10000

  # Mode B: energy activity data
  pcfcalc labor --mode B --contract-hours 250 --company-hours 1000 \
    --electricity 1000 --gasoline 200 --diesel 300 --diesel-mobile 50 --year 2024`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeLabor(cmd, &params)
		},
	}

	params.output.register(cmd, allOutputFormats)
	f := cmd.Flags()
	f.StringVar(&params.mode, "mode", string(emissions.LaborModeDirect), "calculation mode: A (reported total) or B (activity data)")
	f.StringVar(&params.contractID, "contract-id", "", "contract ID shown in reports")
	f.IntVar(&params.year, "year", 0, "assessment year for the electricity factor (default from configuration)")
	f.Float64Var(&params.inputs.ContractHours, "contract-hours", 0, "hours worked on the contract")
	f.Float64Var(&params.inputs.TotalCompanyHours, "company-hours", 0, "hours worked company-wide")
	f.Float64Var(&params.inputs.TotalEmissionsA, "total-emissions", 0, "mode A: company emissions in kgCO2e")
	f.Float64Var(&params.inputs.ElecUsage, "electricity", 0, "mode B: electricity use in kWh")
	f.Float64Var(&params.inputs.GasolineUsage, "gasoline", 0, "mode B: gasoline in liters")
	f.Float64Var(&params.inputs.DieselUsage, "diesel", 0, "mode B: stationary diesel in liters")
	f.Float64Var(&params.inputs.DieselMobileUsage, "diesel-mobile", 0, "mode B: mobile diesel in liters")

	return cmd
}

func executeLabor(cmd *cobra.Command, params *laborParams) error {
	ctx := cmd.Context()

	format, precision, err := params.output.resolve(allOutputFormats)
	if err != nil {
		return err
	}
	mode, err := emissions.ParseLaborMode(strings.ToUpper(params.mode))
	if err != nil {
		return err
	}
	eng, err := newEngine(ctx)
	if err != nil {
		return err
	}

	in := params.inputs
	in.Mode = mode
	year := eng.ResolveYear(params.year)
	ef := eng.ElectricityFactor(year)
	r := emissions.LaborAllocation(in, ef)

	switch format {
	case outputJSON:
		return report.WriteJSON(cmd.OutOrStdout(), report.KindLabor, laborResult{
			Year:              year,
			ElectricityFactor: ef,
			Inputs:            in,
			Result:            r,
		}, report.Options{})
	case outputCSV, outputXLSX:
		d := report.LaborDocument(params.contractID, year, ef, in, r, report.Options{Precision: precision})
		return params.output.writeDocument(cmd, format, d, params.contractID)
	default:
		return report.RenderLabor(cmd.OutOrStdout(), in, r, tableOptions(cmd, precision))
	}
}
