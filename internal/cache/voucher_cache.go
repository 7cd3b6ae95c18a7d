// Package cache memoises voucher selections for a short time.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/Cheertaboi/voucher-selection-service/internal/models"
)

const (
	keyPrefix = "voucher:v1:"
	noMatch   = "-"
)

// VoucherCache stores the outcome of a selection, including "no match",
// under a hash of the orders table, the filter and the day it was resolved on. Recency
// bounds are day offsets, so entries never outlive the day they cover.
type VoucherCache struct {
	store Store
	table string
	ttl   time.Duration
}

// NewVoucherCache caches selections made against table.
func NewVoucherCache(store Store, table string, ttl time.Duration) *VoucherCache {
	return &VoucherCache{store: store, table: table, ttl: ttl}
}

// Get returns the cached amount (nil for a cached "no match") and whether
// there was an entry at all.
func (c *VoucherCache) Get(ctx context.Context, f models.VoucherSelectionFilter, now time.Time) (*int, bool, error) {
	v, err := c.store.Get(ctx, Key(c.table, f, now))
	if errors.Is(err, ErrMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if v == noMatch {
		return nil, true, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry %q: %w", v, err)
	}
	return &n, true, nil
}

func (c *VoucherCache) Set(ctx context.Context, f models.VoucherSelectionFilter, now time.Time, amount *int) error {
	v := noMatch
	if amount != nil {
		v = strconv.Itoa(*amount)
	}
	return c.store.Set(ctx, Key(c.table, f, now), v, c.ttl)
}

// Key identifies f as resolved against table on the calendar day of now (UTC).
func Key(table string, f models.VoucherSelectionFilter, now time.Time) string {
	var b strings.Builder
	b.WriteString(strconv.Quote(table))
	b.WriteString("|")
	b.WriteString(now.UTC().Format(time.DateOnly))
	writeOptString(&b, f.CountryCode)
	writeOptInt(&b, f.TotalOrdersFrom)
	writeOptInt(&b, f.TotalOrdersTo)
	writeOptInt(&b, f.LastOrderFrom)
	writeOptInt(&b, f.LastOrderTo)
	return keyPrefix + strconv.FormatUint(xxh3.HashString(b.String()), 16)
}

func writeOptString(b *strings.Builder, v *string) {
	if v == nil {
		b.WriteString("|~")
		return
	}
	b.WriteString("|=")
	b.WriteString(strconv.Quote(*v))
}

func writeOptInt(b *strings.Builder, v *int) {
	if v == nil {
		b.WriteString("|~")
		return
	}
	b.WriteString("|=")
	b.WriteString(strconv.Itoa(*v))
}
