package emissions

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Parsing errors. The calculation functions themselves never fail; these are
// returned only when callers convert external names into typed values.
var (
	// ErrUnknownFuelType indicates a fuel name outside FuelTypes.
	ErrUnknownFuelType = constError("unknown fuel type")

	// ErrUnknownManufacturingMode indicates a mode other than perUnit or totalAllocated.
	ErrUnknownManufacturingMode = constError("unknown manufacturing mode")

	// ErrUnknownFactorPolicy indicates a manufacturing factor policy other than fixed or year.
	ErrUnknownFactorPolicy = constError("unknown manufacturing factor policy")

	// ErrUnknownLaborMode indicates a labor mode other than A or B.
	ErrUnknownLaborMode = constError("unknown labor mode")
)
