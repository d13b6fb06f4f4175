package factors

import "errors"

// Loading errors.
var (
	// ErrEmptySheet indicates a material sheet without data rows. Callers
	// should keep their current table.
	ErrEmptySheet = errors.New("material sheet contains no data rows")

	// ErrUnsupportedDataset indicates a dataset whose major version this
	// build cannot read.
	ErrUnsupportedDataset = errors.New("unsupported dataset version")

	// ErrInvalidDataset indicates a dataset entry that fails validation.
	ErrInvalidDataset = errors.New("invalid dataset")

	// ErrUnknownSheetFormat indicates a material sheet extension other than .csv or .xlsx.
	ErrUnknownSheetFormat = errors.New("unknown material sheet format")
)
