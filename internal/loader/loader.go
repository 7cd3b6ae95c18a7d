// Package loader ingests order datasets into the orders table.
package loader

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Cheertaboi/voucher-selection-service/internal/cleaning"
	"github.com/Cheertaboi/voucher-selection-service/internal/dataset"
	"github.com/Cheertaboi/voucher-selection-service/internal/models"
)

// Store is the destination of a load. InsertOrders must store the whole
// batch atomically.
type Store interface {
	CreateTable(ctx context.Context) error
	InsertOrders(ctx context.Context, orders []models.Order) (int64, error)
}

type Loader struct {
	store Store
	log   *zap.Logger
}

func New(store Store, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{store: store, log: log}
}

// LoadDataset reads the dataset at path, cleans it and appends it to the
// store, creating the table first if needed. Nothing is inserted when
// reading or cleaning fails.
func (l *Loader) LoadDataset(ctx context.Context, path string) (int64, error) {
	if err := dataset.RequireExists(path); err != nil {
		return 0, err
	}
	if err := l.store.CreateTable(ctx); err != nil {
		return 0, err
	}

	t, err := dataset.Read(path)
	if err != nil {
		return 0, err
	}
	if err := cleaning.CheckColumns(t.Header); err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	l.log.Info("cleaning dataset", zap.String("path", path), zap.Int("rows", len(t.Rows)))

	orders, err := cleaning.CleanOrdersContext(ctx, t.Rows)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}

	n, err := l.store.InsertOrders(ctx, orders)
	if err != nil {
		return 0, err
	}
	l.log.Info("dataset loaded", zap.String("path", path), zap.Int64("inserted", n))
	return n, nil
}
