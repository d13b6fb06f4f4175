package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/greenledger/pcfcalc/internal/emissions"
	"github.com/greenledger/pcfcalc/internal/factors"
	"github.com/greenledger/pcfcalc/internal/report"
)

//nolint:gochecknoglobals // Read-only lookup table.
var factorsOutputFormats = []string{outputTable, outputJSON}

// factorsListing is the JSON form of the active reference data.
type factorsListing struct {
	Version     string                      `json:"version"`
	Materials   []emissions.MaterialFactor  `json:"materials"`
	Transport   []emissions.TransportFactor `json:"transport"`
	Electricity map[int]float64             `json:"electricity"`
}

// NewFactorsListCmd creates the "factors list" command, which prints the
// reference data in effect after the configured dataset and material sheet
// are applied.
func NewFactorsListCmd() *cobra.Command {
	var output outputFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the active emission factors",
		Example: `  pcfcalc factors list
  pcfcalc factors list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _, err := output.resolve(factorsOutputFormats)
			if err != nil {
				return err
			}
			eng, err := newEngine(cmd.Context())
			if err != nil {
				return err
			}
			set := eng.Factors()
			if format == outputJSON {
				return report.WriteJSON(cmd.OutOrStdout(), report.KindFactors, factorsListing{
					Version:     set.Version,
					Materials:   set.Materials.All(),
					Transport:   set.Transport.All(),
					Electricity: set.Electricity,
				}, report.Options{})
			}
			return writeFactorTables(cmd.OutOrStdout(), set)
		},
	}

	output.register(cmd, factorsOutputFormats)
	return cmd
}

func writeFactorTables(w io.Writer, set *factors.Set) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	_, _ = fmt.Fprintln(tw, "MATERIAL\tNAME\tFACTOR\tUNIT\t")
	for _, m := range set.Materials.All() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s/%s\t\n", m.ID, m.Name, formatFactor(m.Factor), m.Unit1, m.Unit2)
	}
	_, _ = fmt.Fprintln(tw, "\t\t\t\t")
	_, _ = fmt.Fprintln(tw, "VEHICLE\tNAME\tFACTOR\tUNIT\t")
	for _, t := range set.Transport.All() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", t.ID, t.Name, formatFactor(t.Factor), t.Unit)
	}
	_, _ = fmt.Fprintln(tw, "\t\t\t\t")
	_, _ = fmt.Fprintln(tw, "YEAR\tELECTRICITY\tUNIT\t\t")
	for _, year := range set.Electricity.Years() {
		_, _ = fmt.Fprintf(tw, "%d\t%s\tkgCO2e/kWh\t\t\n", year, formatFactor(set.Electricity.ForYear(year)))
	}
	return tw.Flush()
}

func formatFactor(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// NewFactorsExportCmd creates the "factors export" command, which writes the
// built-in reference data as a dataset file to edit and load through
// factors.dataset.
func NewFactorsExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the built-in factors as a dataset file",
		Example: `  pcfcalc factors export > factors.yaml
  pcfcalc factors export --out factors.yaml
  pcfcalc config set factors.dataset factors.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := factors.MarshalDefaults()
			if err != nil {
				return fmt.Errorf("rendering dataset: %w", err)
			}
			if out == "" || out == stdoutPath {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err = writeNewFile(out, data, true); err != nil {
				return err
			}
			cmd.Printf("Dataset written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "write to this file instead of stdout")
	return cmd
}
