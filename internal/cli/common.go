package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/greenledger/pcfcalc/internal/cache"
	"github.com/greenledger/pcfcalc/internal/config"
	"github.com/greenledger/pcfcalc/internal/engine"
	"github.com/greenledger/pcfcalc/internal/factors"
	"github.com/greenledger/pcfcalc/internal/logging"
	"github.com/greenledger/pcfcalc/internal/report"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputCSV   = "csv"
	outputXLSX  = "xlsx"

	// stdoutPath selects standard output for --out.
	stdoutPath = "-"
)

//nolint:gochecknoglobals // Read-only lookup table.
var allOutputFormats = []string{outputTable, outputJSON, outputCSV, outputXLSX}

// isWriterTerminal reports whether w is a terminal.
func isWriterTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// outputFlags holds the rendering flags shared by calculation commands.
type outputFlags struct {
	format    string
	out       string
	precision int
}

func (o *outputFlags) register(cmd *cobra.Command, formats []string) {
	cmd.Flags().StringVarP(&o.format, "output", "o", "",
		"Output format: "+strings.Join(formats, ", ")+" (default from configuration)")
	cmd.Flags().IntVar(&o.precision, "precision", -1,
		"Decimals in reports (default from configuration)")
	if slices.Contains(formats, outputCSV) || slices.Contains(formats, outputXLSX) {
		cmd.Flags().StringVar(&o.out, "out", "",
			`Report file for csv and xlsx output ("-" for stdout; default derived from the name)`)
	}
}

// resolve applies configuration defaults and checks the format.
func (o *outputFlags) resolve(formats []string) (string, int, error) {
	format := strings.ToLower(o.format)
	if format == "" {
		format = config.GetDefaultOutputFormat()
	}
	if !slices.Contains(formats, format) {
		// A configured default such as xlsx may not apply to every command.
		if o.format == "" {
			format = outputTable
		} else {
			return "", 0, fmt.Errorf("unsupported output format %q (want one of %s)",
				o.format, strings.Join(formats, ", "))
		}
	}
	precision := o.precision
	if precision < 0 {
		precision = config.GetOutputPrecision()
	}
	return format, precision, nil
}

func tableOptions(cmd *cobra.Command, precision int) report.TableOptions {
	return report.TableOptions{Precision: precision, Styled: isWriterTerminal(cmd.OutOrStdout())}
}

// writeDocument writes d as CSV or XLSX to --out, standard output, or a
// file named after subject in the working directory.
func (o *outputFlags) writeDocument(cmd *cobra.Command, format string, d *report.Document, subject string) error {
	write := report.WriteCSV
	if format == outputXLSX {
		write = report.WriteXLSX
	}

	if o.out == stdoutPath {
		if format == outputXLSX && isWriterTerminal(cmd.OutOrStdout()) {
			return errors.New("refusing to write xlsx to a terminal; use --out FILE")
		}
		return write(cmd.OutOrStdout(), d)
	}

	path := o.out
	if path == "" {
		path = report.Filename(d, subject, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err = write(f, d); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}

	log := logging.FromContext(cmd.Context())
	log.Info().Ctx(cmd.Context()).
		Str("operation", "write_report").
		Str("report_id", d.ID).
		Str("format", format).
		Str("path", path).
		Msg("report written")
	cmd.Printf("Report written to %s\n", path)
	return nil
}

// openCache opens the material sheet cache described by cfg.
func openCache(cfg *config.Config) (*cache.FileStore, error) {
	return cache.NewFileStore(config.CacheDir(), cfg.Cache.Enabled, cfg.Cache.TTLSeconds)
}

// newEngine builds an engine from the resolved configuration and its
// reference data sources.
func newEngine(ctx context.Context) (*engine.Engine, error) {
	cfg := config.GetGlobalConfig()
	policy, err := cfg.FactorPolicy()
	if err != nil {
		return nil, err
	}
	src := factors.Sources{
		Dataset:        cfg.Factors.Dataset,
		MaterialsSheet: cfg.Factors.MaterialsSheet,
		SheetIDBase:    cfg.Factors.SheetIDBase,
	}
	if src.MaterialsSheet != "" && cfg.Cache.Enabled {
		store, err := openCache(cfg)
		if err != nil {
			logging.FromContext(ctx).Warn().Ctx(ctx).
				Str("operation", "open_cache").
				Err(err).
				Msg("material sheet cache unavailable")
		} else {
			src.Cache = store
		}
	}
	set, err := factors.Resolve(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("loading reference data: %w", err)
	}
	return engine.New(set,
		engine.WithFactorPolicy(policy, cfg.Calculation.ManufacturingFixedFactor),
		engine.WithDefaultYear(cfg.Calculation.Year),
		engine.WithWorkers(cfg.Calculation.Workers),
	), nil
}
