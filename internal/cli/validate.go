package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/greenledger/pcfcalc/internal/engine"
	"github.com/greenledger/pcfcalc/internal/equivalency"
	"github.com/greenledger/pcfcalc/internal/ingest"
)

// ReconciliationExitError carries the exit code of a failed strict
// validation to main.
type ReconciliationExitError struct {
	ExitCode int
	Reason   string
}

func (e *ReconciliationExitError) Error() string {
	return e.Reason
}

// Coverage status labels.
const (
	tabwriterPadding = 2

	statusOK      = "OK"
	statusShort   = "SHORT"
	statusMissing = "MISSING"
)

// NewValidateCmd creates the "validate" command, which reconciles upstream
// transport weight against material weight and reports unresolved factor
// references.
func NewValidateCmd() *cobra.Command {
	var (
		strict   bool
		exitCode int
	)

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check transport coverage and factor references",
		Long: `For every material, sums the weight of the upstream transport legs that
reference it and compares it with the material weight (99.9% tolerance).
Legs not linked to a material and references to unknown material or vehicle
factors are listed too; they still count toward the totals.

With --strict the command exits with --exit-code when anything is reported.`,
		Example: `  pcfcalc validate activity.yaml
  pcfcalc validate activity.yaml --strict --exit-code 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeValidate(cmd, args[0], strict, exitCode)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when coverage is incomplete or references are missing")
	cmd.Flags().IntVar(&exitCode, "exit-code", 2, "exit code used by --strict (1-255)")

	return cmd
}

func executeValidate(cmd *cobra.Command, path string, strict bool, exitCode int) error {
	ctx := cmd.Context()
	if strict && (exitCode < 1 || exitCode > 255) {
		return fmt.Errorf("exit-code must be between 1 and 255, got %d", exitCode)
	}

	act, err := ingest.Load(ctx, path)
	if err != nil {
		return err
	}
	eng, err := newEngine(ctx)
	if err != nil {
		return err
	}
	res, err := eng.Evaluate(ctx, &act.Contract, nil, act.Year)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	issues := 0
	for i := range res.Products {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		n, werr := writeCoverage(w, &res.Products[i])
		if werr != nil {
			return werr
		}
		issues += n
	}

	_, _ = fmt.Fprintln(w)
	if issues == 0 {
		_, _ = fmt.Fprintf(w, "All %d product(s) reconciled\n", len(res.Products))
		return nil
	}
	_, _ = fmt.Fprintf(w, "%d issue(s) found\n", issues)

	logger.Info().Ctx(ctx).
		Str("operation", "validate").
		Int("issues", issues).
		Bool("strict", strict).
		Msg("validation finished with issues")
	if strict {
		return &ReconciliationExitError{
			ExitCode: exitCode,
			Reason:   fmt.Sprintf("validation failed: %d issue(s) in %s", issues, path),
		}
	}
	return nil
}

// writeCoverage prints the coverage table of one product and returns the
// number of issues found.
func writeCoverage(w io.Writer, r *engine.ProductResult) (int, error) {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", r.Name, r.ProductID); err != nil {
		return 0, err
	}
	if r.Breakdown.Overridden {
		_, err := fmt.Fprintln(w, "  total declared directly; nothing to reconcile")
		return 0, err
	}

	issues := 0
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	_, _ = fmt.Fprintln(tw, "  MATERIAL\tWEIGHT KG\tTRANSPORTED KG\tLEGS\tSTATUS\t")
	for _, m := range r.Breakdown.Materials {
		v := r.Coverage[m.Item.ID]
		status := statusOK
		switch {
		case v.IsMissing:
			status = statusMissing
			issues++
		case !v.IsValid:
			status = statusShort
			issues++
		}
		_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\t%s\t\n",
			m.Item.ID,
			equivalency.FormatFloat(v.OriginalWeight, 3),
			equivalency.FormatFloat(v.TotalTransportWeight, 3),
			v.LegCount, status)
	}
	if err := tw.Flush(); err != nil {
		return issues, err
	}

	for _, leg := range r.UnlinkedLegs {
		issues++
		if _, err := fmt.Fprintf(w, "  ! upstream leg %s is not linked to a material (%s kg)\n",
			leg.ID, equivalency.FormatFloat(leg.Weight, 3)); err != nil {
			return issues, err
		}
	}
	for _, ref := range r.MissingReferences {
		issues++
		if _, err := fmt.Fprintf(w, "  ! stage %s: %s %q not found\n", ref.Stage, ref.Kind, ref.RefID); err != nil {
			return issues, err
		}
	}
	return issues, nil
}
