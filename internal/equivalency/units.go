package equivalency

import (
	"math"
	"strings"
)

func unitFactor(unit string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "g", "gco2e":
		return GramsToKg, true
	case "", "kg", "kgco2e":
		return 1, true
	case "t", "tco2e", "tonne", "tonnes":
		return TonnesToKg, true
	case "lb", "lbco2e":
		return PoundsToKg, true
	default:
		return 0, false
	}
}

// NormalizeToKg converts a carbon quantity to kilograms. Units are matched
// case-insensitively; an empty unit means kilograms.
func NormalizeToKg(value float64, unit string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrOverflow
	}
	if value < 0 {
		return 0, ErrNegativeValue
	}
	factor, ok := unitFactor(unit)
	if !ok {
		return 0, ErrInvalidUnit
	}
	kg := value * factor
	if math.IsInf(kg, 0) {
		return 0, ErrOverflow
	}
	return kg, nil
}

// IsRecognizedUnit reports whether NormalizeToKg accepts unit.
func IsRecognizedUnit(unit string) bool {
	_, ok := unitFactor(unit)
	return ok
}
