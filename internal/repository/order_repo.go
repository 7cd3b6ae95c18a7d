package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Cheertaboi/voucher-selection-service/internal/clock"
	"github.com/Cheertaboi/voucher-selection-service/internal/models"
)

// insertBatchSize keeps a multi-row INSERT under the bind parameter limits
// of both Postgres and SQLite.
const insertBatchSize = 2000

// OrderColumnsDDL declares the data columns of the orders table.
const OrderColumnsDDL = "timestamp DATE, country_code VARCHAR, last_order_ts DATE, " +
	"first_order_ts DATE, total_orders INT, voucher_amount INT"

type OrderRepo struct {
	db    *gorm.DB
	table string
	clock clock.Clock
}

func NewOrderRepo(db *gorm.DB, table string, clk clock.Clock) *OrderRepo {
	if clk == nil {
		clk = clock.System()
	}
	return &OrderRepo{db: db, table: table, clock: clk}
}

func (r *OrderRepo) Table() string {
	return r.table
}

// CreateTable creates the orders table unless it already exists.
func (r *OrderRepo) CreateTable(ctx context.Context) error {
	idColumn := "id SERIAL PRIMARY KEY"
	if r.db.Dialector.Name() != "postgres" {
		idColumn = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	ddl := "CREATE TABLE IF NOT EXISTS ? (" + idColumn + ", " + OrderColumnsDDL + ")"
	if err := r.db.WithContext(ctx).Exec(ddl, clause.Table{Name: r.table}).Error; err != nil {
		return fmt.Errorf("create table %s: %w", r.table, err)
	}
	return nil
}

// InsertOrders appends orders in one transaction; either every row is
// stored or none is.
func (r *OrderRepo) InsertOrders(ctx context.Context, orders []models.Order) (int64, error) {
	if len(orders) == 0 {
		return 0, nil
	}
	rows := make([]models.Order, len(orders))
	copy(rows, orders)
	for i := range rows {
		rows[i].ID = 0
	}

	var inserted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Table(r.table).CreateInBatches(&rows, insertBatchSize)
		inserted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("insert orders: %w", MapStoreError(err))
	}
	return inserted, nil
}

// SelectVoucherAmount returns the mean of the distinct voucher amounts of
// the orders matching f, truncated to an int. It returns nil when nothing
// matches.
func (r *OrderRepo) SelectVoucherAmount(ctx context.Context, f models.VoucherSelectionFilter) (*int, error) {
	pred, err := ToPredicate(f, r.clock.Now())
	if err != nil {
		return nil, err
	}

	var avg sql.NullFloat64
	q := pred.Apply(r.db.WithContext(ctx).Table(r.table)).
		Select("AVG(DISTINCT voucher_amount)")
	if err := q.Row().Scan(&avg); err != nil {
		return nil, fmt.Errorf("select voucher amount: %w", MapStoreError(err))
	}
	if !avg.Valid {
		return nil, nil
	}
	amount := int(math.Trunc(avg.Float64))
	return &amount, nil
}

// CountOrders returns the number of stored orders.
func (r *OrderRepo) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Table(r.table).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
