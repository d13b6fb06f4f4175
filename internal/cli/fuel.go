package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/greenledger/pcfcalc/internal/emissions"
	"github.com/greenledger/pcfcalc/internal/report"
)

//nolint:gochecknoglobals // Read-only lookup table.
var fuelOutputFormats = []string{outputTable, outputJSON}

// fuelResult is the JSON form of a fuel calculation.
type fuelResult struct {
	Fuel      emissions.FuelType      `json:"fuel"`
	Liters    float64                 `json:"liters"`
	Emissions emissions.FuelEmissions `json:"emissions"`
}

// NewFuelCmd creates the "fuel" command for combustion emissions.
func NewFuelCmd() *cobra.Command {
	var (
		output outputFlags
		fuel   string
		liters float64
	)

	cmd := &cobra.Command{
		Use:   "fuel",
		Short: "Calculate fuel combustion emissions",
		Long: `Converts liters of fuel to kgCO2e from heat content and per-gas emission
factors, weighting CH4 and N2O by their global warming potentials.

Fuel types: ` + fuelTypeNames(),
		Example: `  pcfcalc fuel --type gasoline --liters 100
  pcfcalc fuel --type diesel_mobile --liters 40 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, precision, err := output.resolve(fuelOutputFormats)
			if err != nil {
				return err
			}
			ft, err := emissions.ParseFuelType(strings.ToLower(fuel))
			if err != nil {
				return err
			}
			e := emissions.FuelBreakdown(liters, ft)
			if format == outputJSON {
				return report.WriteJSON(cmd.OutOrStdout(), report.KindFuel,
					fuelResult{Fuel: ft, Liters: liters, Emissions: e}, report.Options{})
			}
			return report.RenderFuel(cmd.OutOrStdout(), ft, liters, e, tableOptions(cmd, precision))
		},
	}

	output.register(cmd, fuelOutputFormats)
	cmd.Flags().StringVar(&fuel, "type", string(emissions.FuelGasoline), "fuel type")
	cmd.Flags().Float64Var(&liters, "liters", 0, "volume burned in liters")

	return cmd
}

func fuelTypeNames() string {
	types := emissions.FuelTypes()
	names := make([]string, len(types))
	for i, ft := range types {
		names[i] = string(ft)
	}
	return strings.Join(names, ", ")
}
