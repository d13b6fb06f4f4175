package emissions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCalculator mirrors the built-in reference data the CLI ships with.
func testCalculator() *Calculator {
	materials := NewMaterialTable([]MaterialFactor{
		{ID: "m1", Name: "Aluminum", Factor: 6.7, Unit1: "kgCO2e", Unit2: "kg"},
		{ID: "m7", Name: "PCB", Factor: 18.5, Unit1: "kgCO2e", Unit2: "kg"},
	})
	transport := NewTransportTable([]TransportFactor{
		{ID: "t1", Name: "Heavy truck (diesel)", Factor: 0.131, Unit: "kgCO2e/t-km"},
		{ID: "t4", Name: "International sea freight", Factor: 1.98, Unit: "kgCO2e/t-km"},
	})
	return NewCalculator(materials, transport)
}

// scenarioProduct is the reference product: 10 kg aluminum shipped 500 km,
// 50 kWh per unit, delivered 200 km, all by heavy truck.
func scenarioProduct() Product {
	p := NewProduct("p1", "Router", 2024)
	p.Materials = []MaterialItem{{ID: "1", Name: "Housing", Weight: 10, FactorID: "m1", UseDB: true}}
	p.UpstreamTransport = []UpstreamTransport{{ID: "u1", MaterialID: "1", Weight: 10, Distance: 500, VehicleID: "t1"}}
	p.Manufacturing = ManufacturingConfig{Mode: ManufacturingPerUnit, ElectricityUsage: 50}
	p.DownstreamTransport = []TransportLeg{{Weight: 10, Distance: 200, VehicleID: "t1"}}
	return p
}

func TestProductTotal_EndToEnd(t *testing.T) {
	calc := testCalculator()
	p := scenarioProduct()

	got := calc.ProductTotal(&p, 0.474)

	assert.InDelta(t, 67.0, got.A, floatTolerance)
	assert.InDelta(t, 0.655, got.B, floatTolerance)
	assert.InDelta(t, 30.3, got.C, floatTolerance)
	assert.InDelta(t, 0.262, got.D, floatTolerance)
	assert.InDelta(t, 98.217, got.Total, floatTolerance)
}

func TestProductTotal_Additivity(t *testing.T) {
	calc := testCalculator()
	p := scenarioProduct()
	p.Materials = append(p.Materials,
		MaterialItem{ID: "2", Weight: 0.35, CustomFactor: 12.25},
		MaterialItem{ID: "3", Weight: 1.2, FactorID: "m7", UseDB: true},
	)
	p.DownstreamTransport = append(p.DownstreamTransport, TransportLeg{Weight: 11, Distance: 9000, VehicleID: "t4"})

	got := calc.ProductTotal(&p, 0.474)
	assert.Equal(t, got.A+got.B+got.C+got.D, got.Total)
}

func TestProductTotal_Override(t *testing.T) {
	calc := testCalculator()

	tests := []struct {
		name      string
		mutate    func(*Product)
		wantTotal float64
	}{
		{
			name:      "positive override",
			mutate:    func(p *Product) { p.TotalOverride = 42.5 },
			wantTotal: 42.5,
		},
		{
			name:      "full data flag with override",
			mutate:    func(p *Product) { p.HasFullData = true; p.TotalOverride = 12 },
			wantTotal: 12,
		},
		{
			name:      "full data flag without override",
			mutate:    func(p *Product) { p.HasFullData = true },
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := scenarioProduct()
			tt.mutate(&p)
			got := calc.ProductTotal(&p, 0.474)
			assert.Equal(t, StageTotals{Total: tt.wantTotal}, got)
		})
	}
}

func TestProductTotal_NilProduct(t *testing.T) {
	assert.Equal(t, StageTotals{}, testCalculator().ProductTotal(nil, 0.5))
}

func TestProductTotal_MissingLookupsDefaultToZero(t *testing.T) {
	calc := testCalculator()
	p := NewProduct("p", "x", 2024)
	p.Materials = []MaterialItem{{ID: "1", Weight: 100, FactorID: "does-not-exist", UseDB: true, CustomFactor: 9}}
	p.UpstreamTransport = []UpstreamTransport{{ID: "u", Weight: 1000, Distance: 10, VehicleID: "zeppelin"}}
	p.DownstreamTransport = []TransportLeg{{Weight: 1000, Distance: 10, VehicleID: ""}}

	got := calc.ProductTotal(&p, 0.474)
	assert.Zero(t, got.A)
	assert.Zero(t, got.B)
	assert.Zero(t, got.D)

	missing := calc.MissingReferences(&p)
	require.Len(t, missing, 3)
	assert.Equal(t, MissingReference{Stage: "A", Kind: ReferenceMaterial, ItemID: "1", RefID: "does-not-exist"}, missing[0])
	assert.Equal(t, ReferenceVehicle, missing[1].Kind)
	assert.Equal(t, "D", missing[2].Stage)
}

func TestProductTotal_UnlinkedUpstreamLegsStillCount(t *testing.T) {
	calc := testCalculator()
	p := NewProduct("p", "x", 2024)
	p.DownstreamTransport = nil
	p.UpstreamTransport = []UpstreamTransport{
		{ID: "a", MaterialID: "", Weight: 2000, Distance: 100, VehicleID: "t1"},
		{ID: "b", MaterialID: "ghost", Weight: 2000, Distance: 100, VehicleID: "t1"},
	}

	got := calc.ProductTotal(&p, 0)
	assert.InDelta(t, 52.4, got.B, floatTolerance)
	assert.Len(t, UnlinkedLegs(&p), 2)
}

func TestTonneKmFormula(t *testing.T) {
	calc := testCalculator()
	assert.InDelta(t, 26.2, calc.legEmission(2000, 100, "t1"), floatTolerance)
}

func TestManufacturing(t *testing.T) {
	calc := testCalculator()

	t.Run("total allocated with one unit equals per unit", func(t *testing.T) {
		perUnit := calc.manufacturingEmission(ManufacturingConfig{Mode: ManufacturingPerUnit, ElectricityUsage: 73.1}, 0.474)
		allocated := calc.manufacturingEmission(
			ManufacturingConfig{Mode: ManufacturingTotalAllocated, ElectricityUsage: 73.1, TotalOutput: 1}, 0.474)
		assert.Equal(t, perUnit, allocated)
	})

	t.Run("total allocated divides by output", func(t *testing.T) {
		got := calc.manufacturingEmission(
			ManufacturingConfig{Mode: ManufacturingTotalAllocated, ElectricityUsage: 1000, TotalOutput: 200}, 0)
		assert.InDelta(t, 3.03, got, floatTolerance)
	})

	t.Run("zero output is guarded", func(t *testing.T) {
		for _, out := range []float64{0, -5, math.NaN()} {
			got := calc.manufacturingEmission(
				ManufacturingConfig{Mode: ManufacturingTotalAllocated, ElectricityUsage: 1000, TotalOutput: out}, 0)
			assert.Zero(t, got)
		}
	})

	t.Run("fixed policy ignores year factor", func(t *testing.T) {
		assert.Equal(t, DefaultManufacturingFactor, calc.ManufacturingFactor(0.474))
	})

	t.Run("year policy honours caller factor", func(t *testing.T) {
		yearCalc := calc.WithManufacturingFactor(ManufacturingFactorYear, 0)
		p := scenarioProduct()
		got := yearCalc.ProductTotal(&p, 0.474)
		assert.InDelta(t, 23.7, got.C, floatTolerance)
		// The original calculator is unchanged.
		assert.Equal(t, ManufacturingFactorFixed, calc.Policy())
	})

	t.Run("custom fixed factor", func(t *testing.T) {
		custom := calc.WithManufacturingFactor(ManufacturingFactorFixed, 0.5)
		assert.InDelta(t, 0.5, custom.ManufacturingFactor(0.474), 0)
	})
}

func TestProductTotal_InvalidNumbersCoerceToZero(t *testing.T) {
	calc := testCalculator()
	p := scenarioProduct()
	p.Materials[0].Weight = math.NaN()
	p.UpstreamTransport[0].Distance = math.Inf(1)
	p.Manufacturing.ElectricityUsage = math.NaN()
	p.TotalOverride = math.NaN()

	got := calc.ProductTotal(&p, math.NaN())
	assert.Zero(t, got.A)
	assert.Zero(t, got.B)
	assert.Zero(t, got.C)
	assert.InDelta(t, 0.262, got.D, floatTolerance)
	assert.False(t, math.IsNaN(got.Total))
}

func TestProductTotal_Deterministic(t *testing.T) {
	calc := testCalculator()
	p := scenarioProduct()
	first := calc.ProductTotal(&p, 0.474)
	for range 50 {
		assert.Equal(t, first, calc.ProductTotal(&p, 0.474))
	}
}

func TestProductBreakdown_MatchesTotals(t *testing.T) {
	calc := testCalculator()
	p := scenarioProduct()
	p.Materials = append(p.Materials, MaterialItem{ID: "2", Name: "Screws", Weight: 0.2, CustomFactor: 3, CustomUnit: "pcs"})

	b := calc.ProductBreakdown(&p, 0.474)
	require.Len(t, b.Materials, 2)
	require.Len(t, b.Upstream, 1)
	require.Len(t, b.Downstream, 1)

	var a float64
	for _, m := range b.Materials {
		a += m.Emission
	}
	assert.Equal(t, b.Totals.A, a)
	assert.Equal(t, b.Totals.C, b.Manufacturing.Emission)
	assert.Equal(t, b.Totals.B, b.Upstream[0].Emission)

	assert.Equal(t, "kg", b.Materials[0].Unit2)
	assert.Equal(t, "pcs", b.Materials[1].Unit2)
	// A custom unit is the declared unit; emissions stay in kgCO2e.
	assert.Equal(t, DefaultEmissionUnit, b.Materials[1].Unit1)
	assert.True(t, b.Materials[0].Resolved)
	assert.Equal(t, "Heavy truck (diesel)", b.Upstream[0].VehicleName)
	assert.Equal(t, "1", b.Upstream[0].MaterialID)
	assert.InDelta(t, 5.0, b.Upstream[0].TonneKm, floatTolerance)
	assert.False(t, b.Overridden)
}

func TestStageTotals_Shares(t *testing.T) {
	s := StageTotals{A: 50, B: 25, C: 15, D: 10, Total: 100}.Shares()
	assert.Equal(t, StageShares{A: 50, B: 25, C: 15, D: 10}, s)
	assert.Equal(t, StageShares{}, StageTotals{}.Shares())
}

func TestParsePolicies(t *testing.T) {
	p, err := ParseManufacturingFactorPolicy("")
	require.NoError(t, err)
	assert.Equal(t, ManufacturingFactorFixed, p)

	_, err = ParseManufacturingFactorPolicy("monthly")
	require.ErrorIs(t, err, ErrUnknownFactorPolicy)

	m, err := ParseManufacturingMode("totalAllocated")
	require.NoError(t, err)
	assert.Equal(t, ManufacturingTotalAllocated, m)

	_, err = ParseManufacturingMode("batch")
	require.ErrorIs(t, err, ErrUnknownManufacturingMode)
}

func TestTables_FirstEntryWins(t *testing.T) {
	tbl := NewMaterialTable([]MaterialFactor{{ID: "x", Factor: 1}, {ID: "x", Factor: 2}})
	assert.Equal(t, 1, tbl.Len())
	assert.InDelta(t, 1.0, tbl.Factor("x"), 0)

	var nilTable *TransportTable
	assert.Zero(t, nilTable.Factor("t1"))
	assert.Zero(t, nilTable.Len())
}

func TestNewProduct_Defaults(t *testing.T) {
	p := NewProduct("p9", "New product", 0)
	assert.Equal(t, DefaultYear, p.Year)
	assert.Empty(t, p.Materials)
	assert.Equal(t, ManufacturingPerUnit, p.Manufacturing.Mode)
	require.Len(t, p.DownstreamTransport, 1)
	assert.Equal(t, TransportLeg{Weight: 100, Distance: 50, VehicleID: "t1"}, p.DownstreamTransport[0])

	// 100 kg over 50 km by heavy truck.
	got := testCalculator().ProductTotal(&p, 0.494)
	assert.InDelta(t, 0.655, got.D, floatTolerance)
	assert.InDelta(t, got.D, got.Total, 0)
}
