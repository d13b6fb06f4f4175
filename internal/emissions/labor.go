package emissions

import "fmt"

// LaborMode selects how company-wide emissions are obtained.
type LaborMode string

const (
	// LaborModeDirect (mode A) takes the company total as entered.
	LaborModeDirect LaborMode = "A"

	// LaborModeActivity (mode B) derives the company total from electricity
	// and fuel consumption.
	LaborModeActivity LaborMode = "B"
)

// ParseLaborMode validates a labor mode name.
func ParseLaborMode(s string) (LaborMode, error) {
	switch LaborMode(s) {
	case LaborModeDirect:
		return LaborModeDirect, nil
	case LaborModeActivity:
		return LaborModeActivity, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLaborMode, s)
	}
}

// LaborInputs are the company-level data used to attribute installation and
// service emissions to one contract by hours worked.
type LaborInputs struct {
	ContractHours     float64   `json:"contractHours"`
	TotalCompanyHours float64   `json:"totalCompanyHours"`
	Mode              LaborMode `json:"mode"`
	// TotalEmissionsA is the company total (kgCO2e) used in mode A.
	TotalEmissionsA float64 `json:"totalEmissionsA"`
	// Mode B activity data: kWh and liters.
	ElecUsage         float64 `json:"elecUsage"`
	GasolineUsage     float64 `json:"gasolineUsage"`
	DieselUsage       float64 `json:"dieselUsage"`
	DieselMobileUsage float64 `json:"dieselMobileUsage"`
}

// LaborDetails break the mode B company total down by source. Diesel sums
// stationary and mobile combustion.
type LaborDetails struct {
	Electricity float64 `json:"elec"`
	Gasoline    float64 `json:"gas"`
	Diesel      float64 `json:"die"`
}

// LaborResult is the outcome of an hours-based allocation.
type LaborResult struct {
	Ratio                 float64      `json:"ratio"`
	TotalCompanyEmissions float64      `json:"totalCompanyEmissions"`
	FinalResult           float64      `json:"finalResult"`
	Details               LaborDetails `json:"details"`
}

// LaborAllocation computes the company emissions baseline and the share
// allocated to the contract by ContractHours/TotalCompanyHours. The ratio is
// zero when TotalCompanyHours is not positive. Mode A leaves Details zeroed;
// any other mode, including the zero value, is treated as mode B.
func LaborAllocation(in LaborInputs, electricityFactor float64) LaborResult {
	ratio := safeDiv(in.ContractHours, in.TotalCompanyHours)

	var (
		total   float64
		details LaborDetails
	)
	if in.Mode == LaborModeDirect {
		total = finite(in.TotalEmissionsA)
	} else {
		details.Electricity = finite(in.ElecUsage) * finite(electricityFactor)
		details.Gasoline = FuelEmission(in.GasolineUsage, FuelGasoline)
		details.Diesel = FuelEmission(in.DieselUsage, FuelDiesel) +
			FuelEmission(in.DieselMobileUsage, FuelDieselMobile)
		total = details.Electricity + details.Gasoline + details.Diesel
	}

	return LaborResult{
		Ratio:                 ratio,
		TotalCompanyEmissions: total,
		FinalResult:           total * ratio,
		Details:               details,
	}
}
