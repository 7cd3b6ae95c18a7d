package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Cheertaboi/voucher-selection-service/internal/models"
)

const (
	OpEqual   = "="
	OpBetween = "BETWEEN"
)

// maxRecencyDays is far past any date the store can hold; larger offsets
// are rejected before doing date arithmetic on them.
const maxRecencyDays = 10_000_000

// minStorableDate is the earliest Postgres DATE (4713 BC).
var minStorableDate = time.Date(-4712, time.January, 1, 0, 0, 0, 0, time.UTC)

// Clause is one condition of a conjunctive predicate. Column is always one
// of the fixed order columns; values only ever travel in Args.
type Clause struct {
	Column string
	Op     string
	Args   []any
}

// SQL renders the clause with bind placeholders.
func (c Clause) SQL() string {
	if c.Op == OpBetween {
		return c.Column + " BETWEEN ? AND ?"
	}
	return c.Column + " " + c.Op + " ?"
}

// Predicate is a conjunction of clauses. The empty predicate matches every row.
type Predicate []Clause

// Apply adds every clause to q as a WHERE condition.
func (p Predicate) Apply(q *gorm.DB) *gorm.DB {
	for _, c := range p {
		q = q.Where(c.SQL(), c.Args...)
	}
	return q
}

// ToPredicate turns f into clauses, resolving recency day offsets against
// now. A bound pair with only one side set contributes nothing.
func ToPredicate(f models.VoucherSelectionFilter, now time.Time) (Predicate, error) {
	var p Predicate

	if f.CountryCode != nil {
		p = append(p, Clause{Column: models.ColumnCountryCode, Op: OpEqual, Args: []any{*f.CountryCode}})
	}

	if f.HasRecency() {
		lo, err := daysAgo(now, *f.LastOrderTo)
		if err != nil {
			return nil, err
		}
		hi, err := daysAgo(now, *f.LastOrderFrom)
		if err != nil {
			return nil, err
		}
		p = append(p, Clause{Column: models.ColumnLastOrderTS, Op: OpBetween, Args: []any{lo, hi}})
	}

	if f.HasFrequency() {
		p = append(p, Clause{
			Column: models.ColumnTotalOrders,
			Op:     OpBetween,
			Args:   []any{*f.TotalOrdersFrom, *f.TotalOrdersTo},
		})
	}

	return p, nil
}

func daysAgo(now time.Time, days int) (time.Time, error) {
	if days > maxRecencyDays || days < -maxRecencyDays {
		return time.Time{}, fmt.Errorf("%w: %d days before now", models.ErrRangeOverflow, days)
	}
	t := now.AddDate(0, 0, -days)
	if t.Before(minStorableDate) {
		return time.Time{}, fmt.Errorf("%w: %d days before now", models.ErrRangeOverflow, days)
	}
	return t, nil
}
