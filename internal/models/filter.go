package models

// SegmentInterval is a parsed "low-high" token. Both bounds are inclusive;
// Low <= High is not enforced.
type SegmentInterval struct {
	Low  int
	High int
}

// VoucherSelectionFilter holds the optional constraints of one voucher
// lookup. Bounds come in pairs; a pair with only one side set is ignored
// when the filter is turned into a predicate.
type VoucherSelectionFilter struct {
	CountryCode *string

	TotalOrdersFrom *int
	TotalOrdersTo   *int

	// Days before now, measured against last_order_ts.
	LastOrderFrom *int
	LastOrderTo   *int
}

// HasFrequency reports whether both total_orders bounds are set.
func (f VoucherSelectionFilter) HasFrequency() bool {
	return f.TotalOrdersFrom != nil && f.TotalOrdersTo != nil
}

// HasRecency reports whether both last_order bounds are set.
func (f VoucherSelectionFilter) HasRecency() bool {
	return f.LastOrderFrom != nil && f.LastOrderTo != nil
}
