// Package emissions is the product carbon footprint (PCF) calculation core.
//
// It turns activity data (materials, transport legs, manufacturing
// electricity, fuel combustion and labor-hour allocation) into kgCO2e totals.
// Every function is pure: inputs are never mutated, nothing is logged, and
// invalid numbers or unmatched reference lookups resolve to zero instead of
// failing, so a half-filled input still produces a total.
//
// Results carry full floating-point precision. Rounding is a presentation
// concern handled by the report package.
package emissions

// MaterialFactor is one entry of the material emission-factor database.
type MaterialFactor struct {
	ID     string  `json:"id"     yaml:"id"`
	Name   string  `json:"name"   yaml:"name"`
	Factor float64 `json:"factor" yaml:"factor"`
	// Unit1 is the numerator unit, e.g. "kgCO2e".
	Unit1 string `json:"unit1" yaml:"unit1"`
	// Unit2 is the declaration (denominator) unit, e.g. "kg".
	Unit2 string `json:"unit2" yaml:"unit2"`
}

// TransportFactor is the emission intensity of a vehicle or mode, in kgCO2e
// per tonne-km.
type TransportFactor struct {
	ID     string  `json:"id"     yaml:"id"`
	Name   string  `json:"name"   yaml:"name"`
	Factor float64 `json:"factor" yaml:"factor"`
	Unit   string  `json:"unit"   yaml:"unit"`
}

// MaterialItem is a material used in a product.
type MaterialItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Weight       float64 `json:"weight"`
	FactorID     string  `json:"factorId"`
	CustomFactor float64 `json:"customFactor"`
	// UseDB selects the database factor referenced by FactorID instead of
	// CustomFactor.
	UseDB      bool   `json:"useDb"`
	CustomUnit string `json:"customUnit,omitempty"`
}

// UpstreamTransport moves part of one material to the manufacturing site.
// MaterialID may be empty; the leg still counts toward stage B.
type UpstreamTransport struct {
	ID         string  `json:"id"`
	MaterialID string  `json:"materialId"`
	Weight     float64 `json:"weight"`
	Distance   float64 `json:"distance"`
	VehicleID  string  `json:"vehicleId"`
}

// TransportLeg is one downstream delivery leg.
type TransportLeg struct {
	Weight    float64 `json:"weight"`
	Distance  float64 `json:"distance"`
	VehicleID string  `json:"vehicleId"`
}

// ManufacturingMode selects how manufacturing electricity is attributed to a
// single product unit.
type ManufacturingMode string

const (
	// ManufacturingPerUnit means ElectricityUsage is already per unit.
	ManufacturingPerUnit ManufacturingMode = "perUnit"

	// ManufacturingTotalAllocated means ElectricityUsage covers the whole
	// production run and is divided by TotalOutput.
	ManufacturingTotalAllocated ManufacturingMode = "totalAllocated"
)

// ManufacturingConfig describes the electricity used to make a product.
type ManufacturingConfig struct {
	Mode             ManufacturingMode `json:"mode"`
	ElectricityUsage float64           `json:"electricityUsage"`
	// ElectricityFactor is informational; the calculator's factor policy
	// decides which factor is applied.
	ElectricityFactor float64 `json:"electricityFactor"`
	TotalOutput       float64 `json:"totalOutput"`
}

// Product is the activity data for one product or service.
//
// When HasFullData is set or TotalOverride is positive the stage data is
// ignored and TotalOverride is reported as the product total.
type Product struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	Year                int                 `json:"year"`
	HasFullData         bool                `json:"hasFullData"`
	TotalOverride       float64             `json:"totalOverride"`
	Materials           []MaterialItem      `json:"materials"`
	UpstreamTransport   []UpstreamTransport `json:"upstreamTransport"`
	Manufacturing       ManufacturingConfig `json:"manufacturing"`
	DownstreamTransport []TransportLeg      `json:"downstreamTransport"`
}

// Defaults of a newly created product.
const (
	DefaultYear               = 2023
	DefaultVehicleID          = "t1"
	DefaultDownstreamWeight   = 100.0
	DefaultDownstreamDistance = 50.0
	DefaultTotalOutput        = 1000.0
)

// NewProduct returns a product with the defaults a freshly created entry has:
// no materials, no upstream legs, per-unit manufacturing over a 1000-unit run
// and one 100 kg, 50 km delivery leg by heavy truck. A zero year selects
// DefaultYear.
func NewProduct(id, name string, year int) Product {
	if year == 0 {
		year = DefaultYear
	}
	return Product{
		ID:                id,
		Name:              name,
		Year:              year,
		Materials:         []MaterialItem{},
		UpstreamTransport: []UpstreamTransport{},
		Manufacturing: ManufacturingConfig{
			Mode:        ManufacturingPerUnit,
			TotalOutput: DefaultTotalOutput,
		},
		DownstreamTransport: []TransportLeg{{
			Weight:    DefaultDownstreamWeight,
			Distance:  DefaultDownstreamDistance,
			VehicleID: DefaultVehicleID,
		}},
	}
}

// IsOverridden reports whether the product total bypasses stage computation.
func (p *Product) IsOverridden() bool {
	return p.HasFullData || finite(p.TotalOverride) > 0
}

// Contract groups the products procured under one agreement. It owns its
// products exclusively.
type Contract struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

// StageTotals are the emissions of one product by life-cycle stage, in kgCO2e.
type StageTotals struct {
	// A is raw material acquisition.
	A float64 `json:"A"`
	// B is upstream (material) transport.
	B float64 `json:"B"`
	// C is manufacturing electricity.
	C float64 `json:"C"`
	// D is downstream (distribution) transport.
	D     float64 `json:"D"`
	Total float64 `json:"total"`
}

// Add returns the stage-wise sum of t and o.
func (t StageTotals) Add(o StageTotals) StageTotals {
	return StageTotals{
		A:     t.A + o.A,
		B:     t.B + o.B,
		C:     t.C + o.C,
		D:     t.D + o.D,
		Total: t.Total + o.Total,
	}
}

// Shares returns each stage as a percentage of Total. All shares are zero
// when Total is not positive.
func (t StageTotals) Shares() StageShares {
	if t.Total <= 0 {
		return StageShares{}
	}
	const pct = 100
	return StageShares{
		A: t.A / t.Total * pct,
		B: t.B / t.Total * pct,
		C: t.C / t.Total * pct,
		D: t.D / t.Total * pct,
	}
}

// StageShares holds per-stage percentages of a product total.
type StageShares struct {
	A float64 `json:"A"`
	B float64 `json:"B"`
	C float64 `json:"C"`
	D float64 `json:"D"`
}
