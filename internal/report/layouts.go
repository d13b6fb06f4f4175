package report

import (
	"strconv"

	"github.com/greenledger/pcfcalc/internal/emissions"
	"github.com/greenledger/pcfcalc/internal/engine"
)

const (
	unitKgCO2e  = "kgCO2e"
	unitTonneKm = "t*km"
	unitKWh     = "kWh"
	unnamed     = "(unnamed)"
)

//nolint:gochecknoglobals // Read-only stage labels.
var stageLabels = [4]string{
	"A. Raw materials",
	"B. Upstream transport",
	"C. Manufacturing",
	"D. Distribution",
}

// ProductDocument lays out the single-product report: a stage summary with
// shares followed by itemized details and per-stage subtotals.
func ProductDocument(r *engine.ProductResult, opts Options) *Document {
	f := numFormatter(opts.precision())
	d := newDocument(KindProduct, "Product carbon footprint report", opts)
	d.header()
	d.add("Product", orDefault(r.Name, unnamed))
	d.add("Product ID", r.ProductID)
	d.add("Assessment year", strconv.Itoa(r.Year))
	d.add("Electricity factor", f.num(r.ElectricityFactor)+" kgCO2e/kWh")
	if r.Breakdown.Overridden {
		d.add("Note", "Total declared directly; stage data not applied")
	}
	d.blank()

	t := r.Totals
	s := r.Shares
	d.heading("Stage", "Emissions (kgCO2e)", "Share")
	d.add(stageLabels[0], f.num(t.A), f.pct(s.A))
	d.add(stageLabels[1], f.num(t.B), f.pct(s.B))
	d.add(stageLabels[2], f.num(t.C), f.pct(s.C))
	d.add(stageLabels[3], f.num(t.D), f.pct(s.D))
	total := "0%"
	if t.Total > 0 {
		total = "100%"
	}
	d.add("Total", f.num(t.Total), total)
	d.blank()

	bd := &r.Breakdown
	d.heading("Details")
	d.heading("Stage", "Item", "Activity", "Unit", "Factor", "Emissions (kgCO2e)")
	for _, m := range bd.Materials {
		d.add("A. Material", orDefault(m.Item.Name, unnamed), plain(m.Item.Weight), m.Unit2, f.num(m.Factor), f.num(m.Emission))
	}
	d.add("", "", "", "", "A subtotal", f.num(t.A))
	for _, l := range bd.Upstream {
		d.add("B. Upstream transport", "Transport - "+materialName(bd, l.MaterialID),
			plain(l.Weight)+" kg / "+plain(l.Distance)+" km", unitTonneKm, f.num(l.Factor), f.num(l.Emission))
	}
	d.add("", "", "", "", "B subtotal", f.num(t.B))
	mf := bd.Manufacturing
	d.add("C. Manufacturing", "Electricity", f.num(mf.UnitUsage), unitKWh, f.num(mf.Factor), f.num(mf.Emission))
	d.add("", "", "", "", "C subtotal", f.num(t.C))
	for _, l := range bd.Downstream {
		d.add("D. Distribution", "Finished goods - "+vehicleName(l),
			plain(l.Weight)+" kg / "+plain(l.Distance)+" km", unitTonneKm, f.num(l.Factor), f.num(l.Emission))
	}
	d.add("", "", "", "", "D subtotal", f.num(t.D))
	return d
}

// ContractDocument lays out the comprehensive contract report: itemized
// product rows, the labor allocation, and a summary table ending in the
// grand total. labor may be nil.
func ContractDocument(res *engine.Result, labor *emissions.LaborInputs, opts Options) *Document {
	f := numFormatter(opts.precision())
	d := newDocument(KindContract, "Comprehensive contract carbon footprint report", opts)
	d.header()
	d.add("Contract ID", res.Rollup.ContractID)
	d.add("Contract name", res.Rollup.Name)
	d.add("Assessment year", strconv.Itoa(res.Year))
	d.add("Electricity factor", f.num(res.ElectricityFactor)+" kgCO2e/kWh")
	d.blank()

	d.heading("[PART 1] Detailed product breakdown")
	d.heading("Category", "Name", "Weight (kg)", "Distance (km)", "Factor", "Emission unit", "Declared unit", "Emissions (kgCO2e)")
	for i := range res.Products {
		p := &res.Products[i]
		bd := &p.Breakdown
		name := orDefault(p.Name, unnamed)
		d.add("[Product subtotal]", name, "-", "-", "-", "-", "-", f.num(p.Totals.Total))
		for _, m := range bd.Materials {
			d.add("  (A) Raw materials", orDefault(m.Item.Name, unnamed), plain(m.Item.Weight), "-",
				f.num(m.Factor), m.Unit1, m.Unit2, f.num(m.Emission))
		}
		for _, l := range bd.Upstream {
			d.add("  (B) Upstream transport", materialName(bd, l.MaterialID)+" shipment ("+vehicleName(l)+")",
				plain(l.Weight), plain(l.Distance), f.num(l.Factor), unitKgCO2e, unitTonneKm, f.num(l.Emission))
		}
		// The emission cell follows the stage total, which an override zeroes.
		mf := bd.Manufacturing
		d.add("  (C) Manufacturing electricity", name+" production", f.num(mf.UnitUsage), "-",
			f.num(mf.Factor), unitKgCO2e, unitKWh, f.num(p.Totals.C))
		for _, l := range bd.Downstream {
			d.add("  (D) Distribution", name+" delivery ("+vehicleName(l)+")",
				plain(l.Weight), plain(l.Distance), f.num(l.Factor), unitKgCO2e, unitTonneKm, f.num(l.Emission))
		}
		d.blank()
	}

	if res.Rollup.Labor != nil && labor != nil {
		d.heading("[PART 2] Installation and labor")
		laborRows(d, f, *labor, *res.Rollup.Labor)
		d.blank()
	}

	d.heading("[SUMMARY] Emissions by stage")
	d.heading("Category", "Name", "A. Raw materials", "B. Upstream transport", "C. Manufacturing", "D. Distribution", "Total (kgCO2e)")
	for i := range res.Products {
		p := &res.Products[i]
		t := p.Totals
		d.add("Product", orDefault(p.Name, unnamed), f.num(t.A), f.num(t.B), f.num(t.C), f.num(t.D), f.num(t.Total))
	}
	if res.Rollup.Labor != nil {
		d.add("Labor", "Installation and labor allocation", "-", "-", "-", "-", f.num(res.Rollup.LaborTotal))
	}
	d.add("", "", "", "", "", "Grand total", f.num(res.Rollup.GrandTotal))
	return d
}

func laborRows(d *Document, f numFormatter, in emissions.LaborInputs, r emissions.LaborResult) {
	if in.Mode == emissions.LaborModeDirect {
		d.heading("Item", "Reported value", "Unit", "Emissions (kgCO2e)")
		d.add("Company total (reported)", plain(in.TotalEmissionsA), unitKgCO2e, f.num(r.TotalCompanyEmissions))
	} else {
		d.heading("Item", "Activity data", "Unit", "Emissions (kgCO2e)")
		d.add("Electricity", plain(in.ElecUsage), unitKWh, f.num(r.Details.Electricity))
		d.add("Gasoline", plain(in.GasolineUsage), "L", f.num(r.Details.Gasoline))
		d.add("Diesel", plain(in.DieselUsage+in.DieselMobileUsage), "L", f.num(r.Details.Diesel))
	}
	d.add("Allocation ratio (hours)", f.pct(r.Ratio*100), "formula", "contract emissions = company total * ratio")
	d.add("Allocated labor emissions", f.num(r.FinalResult), unitKgCO2e, "")
}

// LaborDocument lays out the standalone labor allocation report, including
// the reference coefficients used in mode B.
func LaborDocument(
	contractID string,
	year int,
	electricityFactor float64,
	in emissions.LaborInputs,
	r emissions.LaborResult,
	opts Options,
) *Document {
	f := numFormatter(opts.precision())
	d := newDocument(KindLabor, "Installation and labor emissions report", opts)
	d.header()
	d.add("Contract ID", contractID)
	d.add("Assessment year", strconv.Itoa(year))
	d.blank()

	d.heading("[1] Hours")
	d.add("Contract hours", plain(in.ContractHours))
	d.add("Company hours", plain(in.TotalCompanyHours))
	d.add("Allocation ratio (hours)", f.pct(r.Ratio*100))
	d.blank()

	if in.Mode == emissions.LaborModeDirect {
		d.heading("[2] Reported emissions (mode A)")
		d.add("Company total (kgCO2e)", plain(r.TotalCompanyEmissions))
	} else {
		d.heading("[2] Energy activity data (mode B)")
		d.add("Electricity (kWh)", plain(in.ElecUsage))
		d.add("Electricity factor (kgCO2e/kWh)", plain(electricityFactor))
		d.add("Gasoline (L)", plain(in.GasolineUsage))
		d.add("Diesel, stationary (L)", plain(in.DieselUsage))
		d.add("Diesel, mobile (L)", plain(in.DieselMobileUsage))
		d.blank()
		d.heading("[3] Coefficients")
		d.add("GWP", "CO2:"+plain(emissions.GWPCO2)+", CH4:"+plain(emissions.GWPCH4)+", N2O:"+plain(emissions.GWPN2O))
		for _, ft := range emissions.FuelTypes() {
			props, _ := ft.Properties()
			d.add(props.Name+" heat content", plain(props.KcalPerLiter)+" kcal/L")
		}
		d.add("Conversion factor (TJ/kcal)", strconv.FormatFloat(emissions.KcalToTJ, 'g', -1, 64))
	}
	d.blank()

	d.heading("[4] Results")
	d.add("Company total (kgCO2e)", f.num(r.TotalCompanyEmissions))
	d.add("Allocated to contract (kgCO2e)", f.num(r.FinalResult))
	return d
}

func materialName(bd *emissions.Breakdown, materialID string) string {
	if materialID != "" {
		for _, m := range bd.Materials {
			if m.Item.ID == materialID {
				return orDefault(m.Item.Name, unnamed)
			}
		}
	}
	return "(unknown material)"
}

func vehicleName(l emissions.TransportLine) string {
	if !l.Resolved {
		return "unknown vehicle"
	}
	return l.VehicleName
}
