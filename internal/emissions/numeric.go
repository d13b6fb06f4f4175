package emissions

import "math"

// finite coerces NaN and ±Inf to zero. Interactive inputs routinely pass
// through invalid intermediate states and must never poison a total.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// safeDiv divides num by den, returning 0 when den is not strictly positive
// or either operand is not finite.
func safeDiv(num, den float64) float64 {
	num, den = finite(num), finite(den)
	if den <= 0 {
		return 0
	}
	return num / den
}

// tonneKm returns the transport activity of moving weightKg over distanceKm.
func tonneKm(weightKg, distanceKm float64) float64 {
	return (finite(weightKg) / KgPerTonne) * finite(distanceKm)
}
