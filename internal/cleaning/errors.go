package cleaning

import "errors"

var (
	ErrInvalidNumericFormat = errors.New("invalid numeric format")
	ErrNonIntegralValue     = errors.New("not an integer")
	ErrMissingColumn        = errors.New("missing column")
	ErrInvalidTimestamp     = errors.New("invalid timestamp")
)
