package models

import "time"

// Canonical column names of the orders dataset, in persisted order.
const (
	ColumnTimestamp     = "timestamp"
	ColumnCountryCode   = "country_code"
	ColumnLastOrderTS   = "last_order_ts"
	ColumnFirstOrderTS  = "first_order_ts"
	ColumnTotalOrders   = "total_orders"
	ColumnVoucherAmount = "voucher_amount"
)

// OrderColumns lists the six columns every dataset is projected onto.
var OrderColumns = []string{
	ColumnTimestamp,
	ColumnCountryCode,
	ColumnLastOrderTS,
	ColumnFirstOrderTS,
	ColumnTotalOrders,
	ColumnVoucherAmount,
}

// Order is one cleaned historical order observation. Rows are append-only.
type Order struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	Timestamp     time.Time `gorm:"column:timestamp;type:date" json:"timestamp"`
	CountryCode   string    `gorm:"column:country_code;type:varchar" json:"country_code"`
	LastOrderTS   time.Time `gorm:"column:last_order_ts;type:date" json:"last_order_ts"`
	FirstOrderTS  time.Time `gorm:"column:first_order_ts;type:date" json:"first_order_ts"`
	TotalOrders   int       `gorm:"column:total_orders;type:int" json:"total_orders"`
	VoucherAmount int       `gorm:"column:voucher_amount;type:int" json:"voucher_amount"`
}

// RawOrder is an uncleaned export row keyed by column name. A nil value
// marks a missing cell.
type RawOrder map[string]*string

// Get returns the cell for column and whether the column exists in the row.
func (r RawOrder) Get(column string) (*string, bool) {
	v, ok := r[column]
	return v, ok
}
