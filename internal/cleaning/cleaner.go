// Package cleaning normalises raw order exports into typed order rows.
package cleaning

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/Cheertaboi/voucher-selection-service/internal/concurrency"
	"github.com/Cheertaboi/voucher-selection-service/internal/models"
)

// chunkSize is the number of rows one worker cleans at a time.
const chunkSize = 10000

// CleanOrders projects rows onto the canonical columns, parses timestamps
// and coerces the count and amount columns. The input is not modified and
// the output has exactly one order per input row.
func CleanOrders(rows []models.RawOrder) ([]models.Order, error) {
	return CleanOrdersContext(context.Background(), rows)
}

// CleanOrdersContext is CleanOrders with cancellation. Chunks are cleaned
// in parallel; output order matches input order.
func CleanOrdersContext(ctx context.Context, rows []models.RawOrder) ([]models.Order, error) {
	out := make([]models.Order, len(rows))
	err := concurrency.ForEachChunk(ctx, len(rows), chunkSize, runtime.GOMAXPROCS(0),
		func(ctx context.Context, lo, hi int) error {
			for i := lo; i < hi; i++ {
				o, err := cleanRow(rows[i])
				if err != nil {
					return fmt.Errorf("row %d: %w", i+1, err)
				}
				out[i] = o
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CheckColumns fails with ErrMissingColumn unless every canonical column is
// present in header.
func CheckColumns(header []string) error {
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		seen[h] = true
	}
	for _, col := range models.OrderColumns {
		if !seen[col] {
			return fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return nil
}

func cleanRow(row models.RawOrder) (models.Order, error) {
	var o models.Order

	for _, col := range models.OrderColumns {
		if _, ok := row.Get(col); !ok {
			return o, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var err error
	if o.Timestamp, err = timestampCell(row, models.ColumnTimestamp); err != nil {
		return o, err
	}
	if o.LastOrderTS, err = timestampCell(row, models.ColumnLastOrderTS); err != nil {
		return o, err
	}
	if o.FirstOrderTS, err = timestampCell(row, models.ColumnFirstOrderTS); err != nil {
		return o, err
	}
	if v := row[models.ColumnCountryCode]; v != nil {
		o.CountryCode = *v
	}
	if o.TotalOrders, err = intCell(row, models.ColumnTotalOrders); err != nil {
		return o, err
	}
	if o.VoucherAmount, err = intCell(row, models.ColumnVoucherAmount); err != nil {
		return o, err
	}
	return o, nil
}

func timestampCell(row models.RawOrder, col string) (time.Time, error) {
	v := row[col]
	if v == nil {
		return time.Time{}, fmt.Errorf("%s: %w: missing value", col, ErrInvalidTimestamp)
	}
	t, err := ParseTimestamp(*v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", col, err)
	}
	return t, nil
}

func intCell(row models.RawOrder, col string) (int, error) {
	n, err := ConvertToInt(row[col])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", col, err)
	}
	return n, nil
}

// FormatOrder renders o as a raw row with the canonical columns only.
func FormatOrder(o models.Order) models.RawOrder {
	cells := []string{
		FormatTimestamp(o.Timestamp),
		o.CountryCode,
		FormatTimestamp(o.LastOrderTS),
		FormatTimestamp(o.FirstOrderTS),
		strconv.Itoa(o.TotalOrders),
		strconv.Itoa(o.VoucherAmount),
	}
	row := make(models.RawOrder, len(cells))
	for i, col := range models.OrderColumns {
		v := cells[i]
		row[col] = &v
	}
	return row
}
