package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/greenledger/pcfcalc/internal/emissions"
	"github.com/greenledger/pcfcalc/internal/engine"
	"github.com/greenledger/pcfcalc/internal/report"
)

//nolint:gochecknoglobals // Fixed test clock.
var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testOptions() report.Options {
	return report.Options{Precision: 4, ID: "01TESTREPORT", Now: func() time.Time { return fixedNow }}
}

func routerProduct() emissions.Product {
	p := emissions.NewProduct("p1", "Router", 2024)
	p.Materials = []emissions.MaterialItem{{ID: "1", Name: "Housing", Weight: 10, FactorID: "m1", UseDB: true}}
	p.UpstreamTransport = []emissions.UpstreamTransport{
		{ID: "u1", MaterialID: "1", Weight: 10, Distance: 500, VehicleID: "t1"},
	}
	p.Manufacturing = emissions.ManufacturingConfig{Mode: emissions.ManufacturingPerUnit, ElectricityUsage: 50}
	p.DownstreamTransport = []emissions.TransportLeg{{Weight: 10, Distance: 200, VehicleID: "t1"}}
	return p
}

func contractResult(t *testing.T) (*engine.Result, *emissions.LaborInputs) {
	t.Helper()
	override := emissions.NewProduct("p2", "Installation kit", 2024)
	override.TotalOverride = 42.5
	contract := &emissions.Contract{
		ID:       "C-7",
		Name:     "Network refresh",
		Products: []emissions.Product{routerProduct(), override},
	}
	labor := &emissions.LaborInputs{
		Mode:              emissions.LaborModeDirect,
		ContractHours:     100,
		TotalCompanyHours: 2000,
		TotalEmissionsA:   10000,
	}
	res, err := engine.New(nil).Evaluate(t.Context(), contract, labor, 2024)
	require.NoError(t, err)
	return res, labor
}

func csvString(t *testing.T, d *report.Document) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, d))
	return buf.String()
}

func TestProductDocument_CSV(t *testing.T) {
	p := routerProduct()
	r := engine.New(nil).EvaluateProduct(&p)

	out := csvString(t, report.ProductDocument(&r, testOptions()))

	assert.True(t, strings.HasPrefix(out, "\xef\xbb\xbf"), "CSV must start with a UTF-8 BOM")
	for _, want := range []string{
		"Report ID,01TESTREPORT\n",
		"Generated,2024-05-01T12:00:00Z\n",
		"Assessment year,2024\n",
		"A. Raw materials,67.0000,68.2163%\n",
		"Total,98.2170,100%\n",
		"A. Material,Housing,10,kg,6.7000,67.0000\n",
		"B. Upstream transport,Transport - Housing,10 kg / 500 km,t*km,0.1310,0.6550\n",
		"C. Manufacturing,Electricity,50.0000,kWh,0.6060,30.3000\n",
		",,,,D subtotal,0.2620\n",
	} {
		assert.Contains(t, out, want)
	}
}

func TestProductDocument_Overridden(t *testing.T) {
	p := emissions.NewProduct("p9", "", 2023)
	p.TotalOverride = 5
	r := engine.New(nil).EvaluateProduct(&p)

	out := csvString(t, report.ProductDocument(&r, testOptions()))
	assert.Contains(t, out, "Product,(unnamed)\n")
	assert.Contains(t, out, "Note,Total declared directly; stage data not applied\n")
	assert.Contains(t, out, "A. Raw materials,0.0000,0.0000%\n")
	assert.Contains(t, out, "Total,5.0000,100%\n")
}

func TestContractDocument_CSV(t *testing.T) {
	res, labor := contractResult(t)

	out := csvString(t, report.ContractDocument(res, labor, testOptions()))
	for _, want := range []string{
		"Contract ID,C-7\n",
		"Electricity factor,0.4740 kgCO2e/kWh\n",
		"[Product subtotal],Router,-,-,-,-,-,98.2170\n",
		"\"  (A) Raw materials\",Housing,10,-,6.7000,kgCO2e,kg,67.0000\n",
		"\"  (B) Upstream transport\",Housing shipment (Heavy truck (diesel)),10,500,0.1310,kgCO2e,t*km,0.6550\n",
		"\"  (D) Distribution\",Router delivery (Heavy truck (diesel)),10,200,0.1310,kgCO2e,t*km,0.2620\n",
		"[PART 2] Installation and labor\n",
		"Company total (reported),10000,kgCO2e,10000.0000\n",
		"Allocation ratio (hours),5.0000%,formula,contract emissions = company total * ratio\n",
		"Product,Installation kit,0.0000,0.0000,0.0000,0.0000,42.5000\n",
		"Labor,Installation and labor allocation,-,-,-,-,500.0000\n",
		",,,,,Grand total,640.7170\n",
	} {
		assert.Contains(t, out, want)
	}
}

func TestContractDocument_OverriddenManufacturingRow(t *testing.T) {
	kit := emissions.NewProduct("p3", "Kit", 2024)
	kit.TotalOverride = 10
	kit.Manufacturing = emissions.ManufacturingConfig{Mode: emissions.ManufacturingPerUnit, ElectricityUsage: 50}
	contract := &emissions.Contract{ID: "C-8", Products: []emissions.Product{routerProduct(), kit}}
	res, err := engine.New(nil).Evaluate(t.Context(), contract, nil, 2024)
	require.NoError(t, err)

	out := csvString(t, report.ContractDocument(res, nil, testOptions()))
	assert.Contains(t, out, "\"  (C) Manufacturing electricity\",Router production,50.0000,-,0.6060,kgCO2e,kWh,30.3000\n")
	assert.Contains(t, out, "\"  (C) Manufacturing electricity\",Kit production,50.0000,-,0.6060,kgCO2e,kWh,0.0000\n")
	assert.Contains(t, out, "Product,Kit,0.0000,0.0000,0.0000,0.0000,10.0000\n")
	assert.Contains(t, out, ",,,,,Grand total,108.2170\n")
}

func TestContractDocument_NoLabor(t *testing.T) {
	res, err := engine.New(nil).Evaluate(t.Context(), &emissions.Contract{ID: "C-1"}, nil, 0)
	require.NoError(t, err)

	out := csvString(t, report.ContractDocument(res, nil, testOptions()))
	assert.NotContains(t, out, "[PART 2]")
	assert.NotContains(t, out, "Labor,")
	assert.Contains(t, out, ",,,,,Grand total,0.0000\n")
}

func TestLaborDocument(t *testing.T) {
	in := emissions.LaborInputs{
		Mode:              emissions.LaborModeActivity,
		ContractHours:     250,
		TotalCompanyHours: 1000,
		ElecUsage:         1000,
		GasolineUsage:     200,
		DieselUsage:       300,
		DieselMobileUsage: 50,
	}
	r := emissions.LaborAllocation(in, 0.474)

	out := csvString(t, report.LaborDocument("C-7", 2024, 0.474, in, r, testOptions()))
	for _, want := range []string{
		"Allocation ratio (hours),25.0000%\n",
		"[2] Energy activity data (mode B)\n",
		"Electricity factor (kgCO2e/kWh),0.474\n",
		"Diesel (mobile) heat content,8642 kcal/L\n",
		"Conversion factor (TJ/kcal),4.1868e-09\n",
		"Company total (kgCO2e),1876.9216\n",
		"Allocated to contract (kgCO2e),469.2304\n",
	} {
		assert.Contains(t, out, want)
	}

	in.Mode = emissions.LaborModeDirect
	in.TotalEmissionsA = 800
	out = csvString(t, report.LaborDocument("C-7", 2024, 0.474, in, emissions.LaborAllocation(in, 0.474), testOptions()))
	assert.Contains(t, out, "[2] Reported emissions (mode A)\n")
	assert.NotContains(t, out, "[3] Coefficients")
	assert.Contains(t, out, "Allocated to contract (kgCO2e),200.0000\n")
}

func TestOptions_DefaultPrecisionAndID(t *testing.T) {
	p := routerProduct()
	r := engine.New(nil).EvaluateProduct(&p)

	d := report.ProductDocument(&r, report.Options{Precision: -1})
	assert.Len(t, d.ID, 26)
	assert.Contains(t, csvString(t, d), "Total,98.2170,100%\n")

	d = report.ProductDocument(&r, report.Options{Precision: 1, ID: "x"})
	assert.Contains(t, csvString(t, d), "Total,98.2,100%\n")
}

func TestWriteXLSX(t *testing.T) {
	res, labor := contractResult(t)
	d := report.ContractDocument(res, labor, testOptions())

	var buf bytes.Buffer
	require.NoError(t, report.WriteXLSX(&buf, d))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Contract PCF"}, f.GetSheetList())
	rows, err := f.GetRows("Contract PCF")
	require.NoError(t, err)
	require.Len(t, rows, len(d.Rows))
	assert.Equal(t, "Comprehensive contract carbon footprint report", rows[0][0])
	last := rows[len(rows)-1]
	require.Len(t, last, 7)
	assert.Equal(t, "Grand total", last[5])
	assert.Equal(t, "640.717", last[6])
}

func TestWriteJSON(t *testing.T) {
	res, _ := contractResult(t)

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, report.KindContract, res, testOptions()))

	var env struct {
		ReportID string `json:"reportId"`
		Kind     string `json:"kind"`
		Data     struct {
			Rollup struct {
				GrandTotal float64 `json:"grandTotal"`
			} `json:"rollup"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, "01TESTREPORT", env.ReportID)
	assert.Equal(t, "contract", env.Kind)
	assert.InDelta(t, 640.717, env.Data.Rollup.GrandTotal, 1e-9)
}

func TestRenderContract(t *testing.T) {
	res, _ := contractResult(t)

	var buf bytes.Buffer
	require.NoError(t, report.RenderContract(&buf, res, report.TableOptions{Precision: 4}))
	out := buf.String()

	assert.Contains(t, out, "Contract C-7 Network refresh (year 2024, 0.4740 kgCO2e/kWh)")
	assert.Contains(t, out, "Labor allocation: 500.0000 kgCO2e (5.0000% of 10,000.0000)")
	assert.Contains(t, out, "Grand total: 640.7170 kgCO2e")
	assert.Contains(t, out, "Equivalent to driving ~3,337 miles")
	assert.NotContains(t, out, "\x1b[", "unstyled output has no escape codes")
}

func TestRenderProduct_Issues(t *testing.T) {
	p := routerProduct()
	p.Materials = append(p.Materials, emissions.MaterialItem{ID: "2", Weight: 4, FactorID: "m404", UseDB: true})
	p.UpstreamTransport[0].Weight = 5
	r := engine.New(nil).EvaluateProduct(&p)

	var buf bytes.Buffer
	require.NoError(t, report.RenderProduct(&buf, &r, report.TableOptions{Precision: 2}))
	out := buf.String()

	assert.Contains(t, out, "Router (p1, 2024)")
	assert.Contains(t, out, "! p1: material 1 transport covers 5.00 of 10.00 kg")
	assert.Contains(t, out, "! p1: material 2 has no upstream transport")
	assert.Contains(t, out, `! p1: stage A material "m404" not found`)
}

func TestRenderLaborAndFuel(t *testing.T) {
	in := emissions.LaborInputs{Mode: emissions.LaborModeActivity, ContractHours: 1, TotalCompanyHours: 4, ElecUsage: 1000}
	var buf bytes.Buffer
	require.NoError(t, report.RenderLabor(&buf, in, emissions.LaborAllocation(in, 0.5), report.TableOptions{Precision: 2}))
	assert.Contains(t, buf.String(), "Labor allocation (mode B)")
	assert.Contains(t, buf.String(), "Allocated: 125.00 kgCO2e")

	buf.Reset()
	e := emissions.FuelBreakdown(100, emissions.FuelGasoline)
	require.NoError(t, report.RenderFuel(&buf, emissions.FuelGasoline, 100, e, report.TableOptions{Precision: 4}))
	assert.Contains(t, buf.String(), "Gasoline, 100 L")
	assert.Contains(t, buf.String(), "Total: 229.8795 kgCO2e")
}

func TestFilename(t *testing.T) {
	d := &report.Document{ID: "01ABC", Kind: report.KindProduct}
	assert.Equal(t, "PCF_Report_Router_v2_X.csv", report.Filename(d, "Router v2/ X", "csv"))

	d.Kind = report.KindContract
	assert.Equal(t, "Comprehensive_Report_01ABC.xlsx", report.Filename(d, "", "xlsx"))

	d.Kind = report.KindLabor
	assert.Equal(t, "Labor_Report_C-7.csv", report.Filename(d, "C-7", "csv"))
}
