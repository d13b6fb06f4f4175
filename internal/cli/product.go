package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenledger/pcfcalc/internal/engine"
	"github.com/greenledger/pcfcalc/internal/ingest"
	"github.com/greenledger/pcfcalc/internal/logging"
	"github.com/greenledger/pcfcalc/internal/report"
)

// productParams holds the flags of the product command.
type productParams struct {
	output    outputFlags
	productID string
}

// NewProductCmd creates the "product" command, which computes the footprint
// of each product in an activity file independently.
func NewProductCmd() *cobra.Command {
	var params productParams

	cmd := &cobra.Command{
		Use:   "product FILE",
		Short: "Calculate the footprint of individual products",
		Long: `Calculates the A-D stage emissions of every product in an activity file
(JSON or YAML). Each product uses the electricity factor of its own year.

CSV and XLSX reports cover a single product; select it with --id when the
file holds more than one.`,
		Example: `  # Stage summary of every product
  pcfcalc product activity.yaml

  # Full breakdown as JSON
  pcfcalc product activity.yaml --output json

  # CSV report of one product
  pcfcalc product activity.yaml --id p2 --output csv --out router.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeProduct(cmd, args[0], &params)
		},
	}

	params.output.register(cmd, allOutputFormats)
	cmd.Flags().StringVar(&params.productID, "id", "", "only evaluate the product with this ID")

	return cmd
}

func executeProduct(cmd *cobra.Command, path string, params *productParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

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

	results := make([]engine.ProductResult, 0, len(act.Contract.Products))
	for i := range act.Contract.Products {
		p := &act.Contract.Products[i]
		if params.productID != "" && p.ID != params.productID {
			continue
		}
		results = append(results, eng.EvaluateProduct(p))
	}
	if len(results) == 0 {
		return fmt.Errorf("no product with id %q in %s", params.productID, path)
	}
	log.Debug().Ctx(ctx).
		Str("operation", "evaluate_products").
		Int("product_count", len(results)).
		Str("format", format).
		Msg("products evaluated")

	switch format {
	case outputJSON:
		return report.WriteJSON(cmd.OutOrStdout(), report.KindProduct, results, report.Options{})
	case outputCSV, outputXLSX:
		if len(results) > 1 {
			return fmt.Errorf("%d products in %s; choose one with --id for a %s report",
				len(results), path, format)
		}
		d := report.ProductDocument(&results[0], report.Options{Precision: precision})
		return params.output.writeDocument(cmd, format, d, results[0].Name)
	default:
		opts := tableOptions(cmd, precision)
		for i := range results {
			if i > 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			if err = report.RenderProduct(cmd.OutOrStdout(), &results[i], opts); err != nil {
				return err
			}
		}
		return nil
	}
}
