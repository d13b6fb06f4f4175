package emissions

// Global warming potentials, IPCC AR6 100-year basis.
const (
	// GWPCO2 is the GWP of carbon dioxide (reference gas).
	GWPCO2 = 1.0

	// GWPCH4 is the GWP of methane.
	GWPCH4 = 27.0

	// GWPN2O is the GWP of nitrous oxide.
	GWPN2O = 273.0
)

// KcalToTJ converts kilocalories to terajoules, the energy unit used by
// published fuel emission factors (kg per TJ).
const KcalToTJ = 4.1868e-9

// KgPerTonne converts transported weight from kilograms to tonnes before the
// per tonne-km factor is applied.
const KgPerTonne = 1000.0

// DefaultManufacturingFactor is the fixed grid factor (kgCO2e/kWh) applied to
// manufacturing electricity when the calculator uses ManufacturingFactorFixed.
const DefaultManufacturingFactor = 0.606

// CoverageTolerance is the share of a material's declared weight that its
// upstream transport legs must add up to for the material to count as
// covered. Over-coverage is always accepted.
const CoverageTolerance = 0.999

// Default units reported for material factors that carry none.
const (
	DefaultEmissionUnit    = "kgCO2e"
	DefaultDeclarationUnit = "kg"
)
