package models

import "errors"

// ErrRangeOverflow is returned when a bound cannot be represented by the
// store, e.g. a recency offset reaching past the earliest storable date.
var ErrRangeOverflow = errors.New("value out of representable range")
