package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/Cheertaboi/voucher-selection-service/internal/models"
)

func TestMapStoreError(t *testing.T) {
	overflow := []struct {
		name string
		err  error
	}{
		{"pq datetime overflow", &pq.Error{Code: "22008", Message: "date out of range"}},
		{"pq numeric overflow", &pq.Error{Code: "22003", Message: "integer out of range"}},
		{"pgconn datetime overflow", &pgconn.PgError{Code: "22008", Message: "date out of range"}},
		{"pgconn numeric overflow", &pgconn.PgError{Code: "22003", Message: "integer out of range"}},
		{"wrapped pq", fmt.Errorf("query: %w", &pq.Error{Code: "22008"})},
		{"wrapped pgconn", fmt.Errorf("copy: %w", &pgconn.PgError{Code: "22003"})},
	}
	for _, tt := range overflow {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, MapStoreError(tt.err), models.ErrRangeOverflow)
		})
	}

	passthrough := []struct {
		name string
		err  error
	}{
		{"pq syntax error", &pq.Error{Code: "42601"}},
		{"pgconn unique violation", &pgconn.PgError{Code: "23505"}},
		{"plain error", errors.New("connection refused")},
	}
	for _, tt := range passthrough {
		t.Run(tt.name, func(t *testing.T) {
			got := MapStoreError(tt.err)
			assert.Same(t, tt.err, got)
			assert.NotErrorIs(t, got, models.ErrRangeOverflow)
		})
	}

	assert.NoError(t, MapStoreError(nil))
}
