// Package factors supplies the reference data the emissions core resolves
// against: material emission factors, vehicle tonne-km factors and grid
// electricity factors by year.
//
// Built-in defaults cover the common cases. A YAML dataset file or an
// exported material spreadsheet (CSV or XLSX) can replace them.
package factors

import "github.com/greenledger/pcfcalc/internal/emissions"

// DefaultMaterials returns the built-in material factors (kgCO2e per kg).
func DefaultMaterials() []emissions.MaterialFactor {
	return []emissions.MaterialFactor{
		{ID: "m1", Name: "Aluminum alloy", Factor: 6.7, Unit1: "kgCO2e", Unit2: "kg"},
		{ID: "m2", Name: "Stainless steel", Factor: 6.1, Unit1: "kgCO2e", Unit2: "kg"},
		{ID: "m3", Name: "Copper", Factor: 3.8, Unit1: "kgCO2e", Unit2: "kg"},
		{ID: "m4", Name: "ABS resin", Factor: 3.1, Unit1: "kgCO2e", Unit2: "kg"},
		{ID: "m5", Name: "PVC", Factor: 2.5, Unit1: "kgCO2e", Unit2: "kg"},
		{ID: "m6", Name: "Corrugated board", Factor: 0.9, Unit1: "kgCO2e", Unit2: "kg"},
		{ID: "m7", Name: "Printed circuit board (PCB)", Factor: 18.5, Unit1: "kgCO2e", Unit2: "kg"},
	}
}

// TonneKmUnit is the unit of every vehicle factor.
const TonneKmUnit = "kgCO2e/t-km"

// DefaultTransport returns the built-in vehicle factors.
func DefaultTransport() []emissions.TransportFactor {
	return []emissions.TransportFactor{
		{ID: "t1", Name: "Heavy truck (diesel)", Factor: 0.131, Unit: TonneKmUnit},
		{ID: "t2", Name: "Light truck (diesel)", Factor: 0.587, Unit: TonneKmUnit},
		{ID: "t3", Name: "Light truck (gasoline)", Factor: 0.683, Unit: TonneKmUnit},
		{ID: "t4", Name: "International sea freight", Factor: 1.98, Unit: TonneKmUnit},
		{ID: "t5", Name: "International air freight", Factor: 1.16, Unit: TonneKmUnit},
	}
}

// Set is a resolved bundle of reference data.
type Set struct {
	Version     string
	Materials   *emissions.MaterialTable
	Transport   *emissions.TransportTable
	Electricity ElectricityFactors
}

// Defaults returns the built-in reference data.
func Defaults() *Set {
	return &Set{
		Version:     SupportedDatasetVersion,
		Materials:   emissions.NewMaterialTable(DefaultMaterials()),
		Transport:   emissions.NewTransportTable(DefaultTransport()),
		Electricity: DefaultElectricityFactors(),
	}
}

// Calculator returns an emissions calculator over the set's tables.
func (s *Set) Calculator() *emissions.Calculator {
	return emissions.NewCalculator(s.Materials, s.Transport)
}

// WithMaterials returns a copy of s whose material table is replaced.
func (s *Set) WithMaterials(materials []emissions.MaterialFactor) *Set {
	cp := *s
	cp.Materials = emissions.NewMaterialTable(materials)
	return &cp
}
