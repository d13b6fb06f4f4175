package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/greenledger/pcfcalc/internal/emissions"
	"github.com/greenledger/pcfcalc/internal/engine"
	"github.com/greenledger/pcfcalc/internal/equivalency"
)

// tabwriterPadding is the minimum padding between table columns.
const tabwriterPadding = 2

// TableOptions control terminal rendering.
type TableOptions struct {
	// Precision is the number of decimals; negative means DefaultPrecision.
	Precision int
	// Styled enables lipgloss colors; set it only for terminals.
	Styled bool
}

func (o TableOptions) precision() int {
	if o.Precision < 0 {
		return DefaultPrecision
	}
	return o.Precision
}

func headingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
}

func totalStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
}

func warnStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
}

type tableWriter struct {
	w    io.Writer
	opts TableOptions
	err  error
}

func (t *tableWriter) style(s lipgloss.Style, text string) string {
	if !t.opts.Styled {
		return text
	}
	return s.Render(text)
}

func (t *tableWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *tableWriter) heading(text string) {
	t.printf("%s\n", t.style(headingStyle(), text))
}

func (t *tableWriter) num(v float64) string {
	return equivalency.FormatFloat(v, t.opts.precision())
}

// table writes tab-separated rows aligned by a tabwriter.
func (t *tableWriter) table(rows [][]string) {
	if t.err != nil {
		return
	}
	tw := tabwriter.NewWriter(t.w, 0, 0, tabwriterPadding, ' ', tabwriter.AlignRight)
	for _, r := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(r, "\t")+"\t"); err != nil {
			t.err = err
			return
		}
	}
	t.err = tw.Flush()
}

func (t *tableWriter) equivalencies(kg float64) {
	out := equivalency.FromKg(kg)
	if out.IsEmpty {
		return
	}
	t.printf("%s\n", out.Text)
}

func (t *tableWriter) stageRows(label string, tot emissions.StageTotals) []string {
	return []string{label, t.num(tot.A), t.num(tot.B), t.num(tot.C), t.num(tot.D), t.num(tot.Total)}
}

// RenderProduct writes a stage summary of one product with shares,
// coverage warnings and carbon equivalencies.
func RenderProduct(w io.Writer, r *engine.ProductResult, opts TableOptions) error {
	t := &tableWriter{w: w, opts: opts}
	t.heading(fmt.Sprintf("%s (%s, %d)", orDefault(r.Name, unnamed), r.ProductID, r.Year))
	if r.Breakdown.Overridden {
		t.printf("Total declared directly; stage data not applied.\n")
	}
	s := r.Shares
	tot := r.Totals
	t.table([][]string{
		{"STAGE", "KGCO2E", "SHARE"},
		{stageLabels[0], t.num(tot.A), t.num(s.A) + "%"},
		{stageLabels[1], t.num(tot.B), t.num(s.B) + "%"},
		{stageLabels[2], t.num(tot.C), t.num(s.C) + "%"},
		{stageLabels[3], t.num(tot.D), t.num(s.D) + "%"},
	})
	t.printf("%s %s kgCO2e\n", t.style(totalStyle(), "Total:"), t.num(tot.Total))
	renderIssues(t, r)
	t.equivalencies(tot.Total)
	return t.err
}

// RenderContract writes the per-product stage table, the labor line and
// the grand total of a contract evaluation.
func RenderContract(w io.Writer, res *engine.Result, opts TableOptions) error {
	t := &tableWriter{w: w, opts: opts}
	ro := &res.Rollup
	title := "Contract"
	if ro.ContractID != "" || ro.Name != "" {
		title = strings.TrimSpace(fmt.Sprintf("Contract %s %s", ro.ContractID, ro.Name))
	}
	t.heading(fmt.Sprintf("%s (year %d, %s kgCO2e/kWh)", title, res.Year, t.num(res.ElectricityFactor)))

	rows := [][]string{{"PRODUCT", "A", "B", "C", "D", "TOTAL"}}
	for i := range res.Products {
		p := &res.Products[i]
		rows = append(rows, t.stageRows(orDefault(p.Name, p.ProductID), p.Totals))
	}
	rows = append(rows, t.stageRows("All products", ro.Stages))
	t.table(rows)

	if ro.Labor != nil {
		t.printf("Labor allocation: %s kgCO2e (%s%% of %s)\n",
			t.num(ro.LaborTotal), t.num(ro.Labor.Ratio*100), t.num(ro.Labor.TotalCompanyEmissions))
	}
	t.printf("%s %s kgCO2e\n", t.style(totalStyle(), "Grand total:"), t.num(ro.GrandTotal))
	for i := range res.Products {
		renderIssues(t, &res.Products[i])
	}
	t.equivalencies(ro.GrandTotal)
	return t.err
}

// RenderLabor writes a labor allocation result.
func RenderLabor(w io.Writer, in emissions.LaborInputs, r emissions.LaborResult, opts TableOptions) error {
	t := &tableWriter{w: w, opts: opts}
	t.heading("Labor allocation (mode " + string(in.Mode) + ")")
	rows := [][]string{{"ITEM", "KGCO2E"}}
	if in.Mode != emissions.LaborModeDirect {
		rows = append(rows,
			[]string{"Electricity", t.num(r.Details.Electricity)},
			[]string{"Gasoline", t.num(r.Details.Gasoline)},
			[]string{"Diesel", t.num(r.Details.Diesel)},
		)
	}
	rows = append(rows,
		[]string{"Company total", t.num(r.TotalCompanyEmissions)},
		[]string{"Hours ratio %", t.num(r.Ratio * 100)},
	)
	t.table(rows)
	t.printf("%s %s kgCO2e\n", t.style(totalStyle(), "Allocated:"), t.num(r.FinalResult))
	return t.err
}

// RenderFuel writes the per-gas result of a fuel combustion calculation.
func RenderFuel(w io.Writer, fuel emissions.FuelType, liters float64, e emissions.FuelEmissions, opts TableOptions) error {
	t := &tableWriter{w: w, opts: opts}
	name := string(fuel)
	if props, ok := fuel.Properties(); ok {
		name = props.Name
	}
	t.heading(fmt.Sprintf("%s, %s L", name, plain(liters)))
	t.table([][]string{
		{"GAS", "KGCO2E"},
		{"CO2", t.num(e.CO2)},
		{"CH4", t.num(e.CH4)},
		{"N2O", t.num(e.N2O)},
	})
	t.printf("%s %s kgCO2e\n", t.style(totalStyle(), "Total:"), t.num(e.Total))
	return t.err
}

func renderIssues(t *tableWriter, r *engine.ProductResult) {
	for _, id := range r.UnderCovered() {
		v := r.Coverage[id]
		msg := fmt.Sprintf("! %s: material %s transport covers %s of %s kg",
			r.ProductID, id, t.num(v.TotalTransportWeight), t.num(v.OriginalWeight))
		if v.IsMissing {
			msg = fmt.Sprintf("! %s: material %s has no upstream transport", r.ProductID, id)
		}
		t.printf("%s\n", t.style(warnStyle(), msg))
	}
	for _, ref := range r.MissingReferences {
		t.printf("%s\n", t.style(warnStyle(),
			fmt.Sprintf("! %s: stage %s %s %q not found", r.ProductID, ref.Stage, ref.Kind, ref.RefID)))
	}
}
