package equivalency

// EPA greenhouse gas equivalency factors, kg CO2e per unit of activity.
// An equivalency is kg CO2e divided by the factor.
const (
	// MilesDrivenFactor is kg CO2e per mile of an average passenger vehicle.
	MilesDrivenFactor = 0.192

	// SmartphoneChargeFactor is kg CO2e per full smartphone charge.
	SmartphoneChargeFactor = 0.00822

	// TreeSeedlingFactor is kg CO2e absorbed by one urban tree seedling
	// grown for 10 years.
	TreeSeedlingFactor = 60.0

	// HomeDayFactor is kg CO2e of one day of average home electricity use.
	HomeDayFactor = 18.3
)

// Unit conversions to kilograms.
const (
	GramsToKg  = 0.001
	TonnesToKg = 1000.0
	PoundsToKg = 0.453592
)

// Display thresholds.
const (
	// MinThresholdKg is the smallest total for which equivalencies are
	// shown; below it they are meaninglessly small.
	MinThresholdKg = 1.0

	// MillionThreshold switches display to "~X.X million".
	MillionThreshold = 1_000_000

	// BillionThreshold switches display to "~X.X billion".
	BillionThreshold = 1_000_000_000
)
