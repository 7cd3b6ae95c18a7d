package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/Cheertaboi/voucher-selection-service/internal/models"
)

// SQLSTATE codes reported by Postgres for out-of-range values.
const (
	sqlStateDatetimeOverflow = "22008"
	sqlStateNumericOverflow  = "22003"
)

// MapStoreError turns Postgres range errors into models.ErrRangeOverflow.
// Everything else is returned unchanged.
func MapStoreError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && isOverflowCode(string(pqErr.Code)) {
		return fmt.Errorf("%w: %s", models.ErrRangeOverflow, pqErr.Message)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && isOverflowCode(pgErr.Code) {
		return fmt.Errorf("%w: %s", models.ErrRangeOverflow, pgErr.Message)
	}
	return err
}

func isOverflowCode(code string) bool {
	return code == sqlStateDatetimeOverflow || code == sqlStateNumericOverflow
}
