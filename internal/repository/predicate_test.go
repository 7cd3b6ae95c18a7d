package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/voucher-selection-service/internal/models"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

var fixedNow = time.Date(2020, 5, 20, 12, 0, 0, 0, time.UTC)

func TestToPredicate_Empty(t *testing.T) {
	p, err := ToPredicate(models.VoucherSelectionFilter{}, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestToPredicate_AllConstraints(t *testing.T) {
	f := models.VoucherSelectionFilter{
		CountryCode:     strPtr("Peru"),
		TotalOrdersFrom: intPtr(10),
		TotalOrdersTo:   intPtr(100),
		LastOrderFrom:   intPtr(30),
		LastOrderTo:     intPtr(60),
	}
	p, err := ToPredicate(f, fixedNow)
	require.NoError(t, err)
	require.Len(t, p, 3)

	assert.Equal(t, "country_code = ?", p[0].SQL())
	assert.Equal(t, []any{"Peru"}, p[0].Args)

	assert.Equal(t, "last_order_ts BETWEEN ? AND ?", p[1].SQL())
	assert.Equal(t, []any{fixedNow.AddDate(0, 0, -60), fixedNow.AddDate(0, 0, -30)}, p[1].Args)

	assert.Equal(t, "total_orders BETWEEN ? AND ?", p[2].SQL())
	assert.Equal(t, []any{10, 100}, p[2].Args)
}

func TestToPredicate_PartialPairsIgnored(t *testing.T) {
	p, err := ToPredicate(models.VoucherSelectionFilter{
		TotalOrdersFrom: intPtr(5),
		LastOrderTo:     intPtr(7),
	}, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestToPredicate_CountryIsBoundNotInterpolated(t *testing.T) {
	evil := "x' OR '1'='1"
	p, err := ToPredicate(models.VoucherSelectionFilter{CountryCode: &evil}, fixedNow)
	require.NoError(t, err)
	require.Len(t, p, 1)
	assert.NotContains(t, p[0].SQL(), evil)
	assert.Equal(t, []any{evil}, p[0].Args)
}

func TestToPredicate_RecencyOverflow(t *testing.T) {
	for _, days := range []int{3_000_000, 99_999_999} {
		_, err := ToPredicate(models.VoucherSelectionFilter{
			LastOrderFrom: intPtr(0),
			LastOrderTo:   intPtr(days),
		}, fixedNow)
		assert.ErrorIs(t, err, models.ErrRangeOverflow, "days=%d", days)
	}
}
