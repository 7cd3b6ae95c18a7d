package cleaning

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Cheertaboi/voucher-selection-service/internal/models"
)

// emptyNumeric stands in for blank and missing cells.
const emptyNumeric = "0.0"

// decimalFloat is the accepted numeric grammar: decimal digits with single
// underscores between them, an optional fraction and exponent, or one of the
// inf/nan words. Hex floats are rejected.
var decimalFloat = regexp.MustCompile(
	`^[+-]?(?:(?:\d(?:_?\d)*(?:\.(?:\d(?:_?\d)*)?)?|\.\d(?:_?\d)*)(?:[eE][+-]?\d(?:_?\d)*)?|(?i:inf|infinity|nan))$`)

// ConvertToInt turns a loosely typed numeric cell into an int. Values are
// parsed as floats first so "10.0" is accepted, then rejected unless the
// fractional part is zero.
func ConvertToInt(value *string) (int, error) {
	s := emptyNumeric
	if value != nil && *value != "" {
		s = strings.TrimSpace(*value)
	}
	if !decimalFloat.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumericFormat, s)
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			// overflows to ±Inf, which is never integral
			return 0, fmt.Errorf("%w: %q", ErrNonIntegralValue, s)
		}
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumericFormat, s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %v", ErrNonIntegralValue, f)
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%w: %q", models.ErrRangeOverflow, s)
	}
	return int(f), nil
}
