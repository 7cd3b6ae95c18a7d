package cleaning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/voucher-selection-service/internal/models"
)

func strPtr(s string) *string { return &s }

func TestConvertToInt(t *testing.T) {
	tests := []struct {
		name  string
		value *string
		want  int
	}{
		{"nil", nil, 0},
		{"empty string", strPtr(""), 0},
		{"float zero", strPtr("0.0"), 0},
		{"float non zero", strPtr("10.0"), 10},
		{"plain int", strPtr("47"), 47},
		{"exponent integral", strPtr("1e3"), 1000},
		{"surrounding space", strPtr(" 5720.0 "), 5720},
		{"digit separators", strPtr("1_000"), 1000},
		{"leading dot", strPtr(".0"), 0},
		{"trailing dot", strPtr("12."), 12},
		{"signed", strPtr("-3.0"), -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertToInt(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertToInt_Invalid(t *testing.T) {
	tests := []struct {
		value   string
		wantErr error
	}{
		{"10.1", ErrNonIntegralValue},
		{"10e-14", ErrNonIntegralValue},
		{"NaN", ErrNonIntegralValue},
		{"inf", ErrNonIntegralValue},
		{"1e400", ErrNonIntegralValue},
		{"10,1", ErrInvalidNumericFormat},
		{"invalid", ErrInvalidNumericFormat},
		{"0x10", ErrInvalidNumericFormat},
		{"0x1p4", ErrInvalidNumericFormat},
		{"1__000", ErrInvalidNumericFormat},
		{"_1", ErrInvalidNumericFormat},
		{" ", ErrInvalidNumericFormat},
		{"\t\n", ErrInvalidNumericFormat},
		{".", ErrInvalidNumericFormat},
		{"1e19", models.ErrRangeOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			_, err := ConvertToInt(strPtr(tt.value))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
