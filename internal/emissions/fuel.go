package emissions

import "fmt"

// FuelType identifies a combusted fuel with a fixed heat content and
// emission-factor set.
type FuelType string

// Supported fuels.
const (
	FuelGasoline     FuelType = "gasoline"
	FuelDiesel       FuelType = "diesel"
	FuelDieselMobile FuelType = "diesel_mobile"
)

// FuelProperties are the fixed reference values of one fuel.
type FuelProperties struct {
	Name string
	// KcalPerLiter is the heat content.
	KcalPerLiter float64
	// Emission factors in kg per TJ.
	CO2 float64
	CH4 float64
	N2O float64
}

// fuelTable holds the reference values; it is not user-configurable.
//
//nolint:gochecknoglobals // Read-only lookup table.
var fuelTable = map[FuelType]FuelProperties{
	FuelGasoline:     {Name: "Gasoline", KcalPerLiter: 7609, CO2: 69300, CH4: 25, N2O: 8},
	FuelDiesel:       {Name: "Diesel (stationary)", KcalPerLiter: 8642, CO2: 74100, CH4: 3, N2O: 0.6},
	FuelDieselMobile: {Name: "Diesel (mobile)", KcalPerLiter: 8642, CO2: 74100, CH4: 3.9, N2O: 3.9},
}

// FuelTypes lists the supported fuels in a stable order.
func FuelTypes() []FuelType {
	return []FuelType{FuelGasoline, FuelDiesel, FuelDieselMobile}
}

// ParseFuelType validates a fuel name.
func ParseFuelType(s string) (FuelType, error) {
	ft := FuelType(s)
	if _, ok := fuelTable[ft]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFuelType, s)
	}
	return ft, nil
}

// Properties returns the reference values of the fuel.
func (f FuelType) Properties() (FuelProperties, bool) {
	p, ok := fuelTable[f]
	return p, ok
}

// FuelEmissions is the per-species result of burning a quantity of fuel,
// already weighted by GWP, in kgCO2e.
type FuelEmissions struct {
	CO2   float64 `json:"co2"`
	CH4   float64 `json:"ch4"`
	N2O   float64 `json:"n2o"`
	Total float64 `json:"total"`
}

// FuelBreakdown returns the CO2e contribution of each greenhouse gas from
// burning liters of fuel. Non-positive or non-finite volumes and unknown fuels
// yield a zero result.
func FuelBreakdown(liters float64, fuel FuelType) FuelEmissions {
	if finite(liters) <= 0 {
		return FuelEmissions{}
	}
	d, ok := fuelTable[fuel]
	if !ok {
		return FuelEmissions{}
	}
	co2 := liters * d.KcalPerLiter * KcalToTJ * d.CO2 * GWPCO2
	ch4 := liters * d.KcalPerLiter * KcalToTJ * d.CH4 * GWPCH4
	n2o := liters * d.KcalPerLiter * KcalToTJ * d.N2O * GWPN2O
	return FuelEmissions{CO2: co2, CH4: ch4, N2O: n2o, Total: co2 + ch4 + n2o}
}

// FuelEmission returns the kgCO2e of burning liters of fuel.
func FuelEmission(liters float64, fuel FuelType) float64 {
	return FuelBreakdown(liters, fuel).Total
}
