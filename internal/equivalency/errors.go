package equivalency

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrInvalidUnit indicates an unrecognized carbon unit.
	ErrInvalidUnit = constError("invalid carbon unit")

	// ErrNegativeValue indicates a negative carbon value.
	ErrNegativeValue = constError("negative carbon value")

	// ErrOverflow indicates a value that is NaN, infinite or overflows on
	// conversion.
	ErrOverflow = constError("carbon value overflow")
)
