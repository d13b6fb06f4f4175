package factors

import (
	"maps"
	"slices"
)

// FallbackElectricityFactor (kgCO2e/kWh) applies to years without a
// published grid factor.
const FallbackElectricityFactor = 0.495

// ElectricityFactors maps an assessment year to its grid emission factor in
// kgCO2e/kWh.
type ElectricityFactors map[int]float64

// DefaultElectricityFactors returns the built-in grid factors.
func DefaultElectricityFactors() ElectricityFactors {
	return ElectricityFactors{
		2022: 0.495,
		2023: 0.494,
		2024: 0.474,
	}
}

// ForYear returns the factor for year, or FallbackElectricityFactor when the
// year is unknown or its factor is not positive.
func (e ElectricityFactors) ForYear(year int) float64 {
	if f, ok := e[year]; ok && f > 0 {
		return f
	}
	return FallbackElectricityFactor
}

// Has reports whether a factor is published for year.
func (e ElectricityFactors) Has(year int) bool {
	_, ok := e[year]
	return ok
}

// Years returns the years with a published factor, ascending.
func (e ElectricityFactors) Years() []int {
	return slices.Sorted(maps.Keys(e))
}

// Latest returns the most recent year with a published factor, or 0.
func (e ElectricityFactors) Latest() int {
	years := e.Years()
	if len(years) == 0 {
		return 0
	}
	return years[len(years)-1]
}
