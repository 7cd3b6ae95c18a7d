// Package postgres bulk loads orders into Postgres with COPY using pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Cheertaboi/voucher-selection-service/internal/models"
	"github.com/Cheertaboi/voucher-selection-service/internal/repository"
)

// Copier writes order batches with a single COPY statement, so a batch is
// either stored completely or not at all.
type Copier struct {
	pool  *pgxpool.Pool
	table string
	log   *zap.Logger
}

// NewCopier connects to dsn and returns the Copier with a close function.
func NewCopier(ctx context.Context, dsn, table string, log *zap.Logger) (*Copier, func(), error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Copier{pool: pool, table: table, log: log}, pool.Close, nil
}

func (c *Copier) ident() pgx.Identifier {
	return pgx.Identifier(strings.Split(c.table, "."))
}

// CreateTable creates the orders table unless it already exists.
func (c *Copier) CreateTable(ctx context.Context) error {
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (id SERIAL PRIMARY KEY, %s)",
		c.ident().Sanitize(), repository.OrderColumnsDDL)
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", c.table, err)
	}
	return nil
}

// InsertOrders copies orders into the table on one pooled connection.
func (c *Copier) InsertOrders(ctx context.Context, orders []models.Order) (int64, error) {
	if len(orders) == 0 {
		return 0, nil
	}

	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	c.log.Debug("copying orders", zap.String("table", c.table), zap.Int("rows", len(orders)))
	n, err := conn.CopyFrom(ctx, c.ident(), models.OrderColumns, pgx.CopyFromSlice(len(orders), func(i int) ([]any, error) {
		o := orders[i]
		return []any{o.Timestamp, o.CountryCode, o.LastOrderTS, o.FirstOrderTS, o.TotalOrders, o.VoucherAmount}, nil
	}))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			c.log.Warn("copy failed", zap.String("detail", pgErr.Detail), zap.String("sqlstate", pgErr.SQLState()))
		}
		return 0, fmt.Errorf("copy into %s: %w", c.table, repository.MapStoreError(err))
	}
	return n, nil
}
