package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/voucher-selection-service/internal/cache"
	"github.com/Cheertaboi/voucher-selection-service/internal/clock"
	"github.com/Cheertaboi/voucher-selection-service/internal/metrics"
	"github.com/Cheertaboi/voucher-selection-service/internal/models"
)

// -- Mocks --

type orderRepoMock struct {
	mock.Mock
}

func (m *orderRepoMock) SelectVoucherAmount(ctx context.Context, f models.VoucherSelectionFilter) (*int, error) {
	args := m.Called(ctx, f)
	amount, _ := args.Get(0).(*int)
	return amount, args.Error(1)
}

func ptr[T any](v T) *T { return &v }

func TestComputeVoucherAmount(t *testing.T) {
	repo := &orderRepoMock{}
	want := models.VoucherSelectionFilter{
		CountryCode:     ptr("Latvia"),
		TotalOrdersFrom: ptr(1),
		TotalOrdersTo:   ptr(3),
	}
	repo.On("SelectVoucherAmount", mock.Anything, want).Return(ptr(8800), nil).Once()

	svc := NewVoucherService(repo, nil)
	got, err := svc.ComputeVoucherAmount(context.Background(), VoucherRequest{
		CountryCode:      ptr("Latvia"),
		FrequencySegment: ptr("1-3"),
	})
	require.NoError(t, err)
	assert.Equal(t, ptr(8800), got)
	repo.AssertExpectations(t)
}

func TestComputeVoucherAmount_NoMatch(t *testing.T) {
	repo := &orderRepoMock{}
	repo.On("SelectVoucherAmount", mock.Anything, mock.Anything).Return(nil, nil)

	got, err := NewVoucherService(repo, nil).ComputeVoucherAmount(context.Background(), VoucherRequest{})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestComputeVoucherAmount_InvalidSegmentSkipsStore(t *testing.T) {
	repo := &orderRepoMock{}
	_, err := NewVoucherService(repo, nil).ComputeVoucherAmount(context.Background(), VoucherRequest{
		RecencySegment: ptr("soon"),
	})
	assert.ErrorIs(t, err, ErrInvalidSegmentFormat)
	repo.AssertNotCalled(t, "SelectVoucherAmount", mock.Anything, mock.Anything)
}

func TestComputeVoucherAmount_StoreErrorPropagates(t *testing.T) {
	repo := &orderRepoMock{}
	repo.On("SelectVoucherAmount", mock.Anything, mock.Anything).
		Return(nil, models.ErrRangeOverflow)

	_, err := NewVoucherService(repo, nil).ComputeVoucherAmount(context.Background(), VoucherRequest{
		RecencySegment: ptr("0-99999999"),
	})
	assert.ErrorIs(t, err, models.ErrRangeOverflow)
}

func TestComputeVoucherAmount_AppliesTimeout(t *testing.T) {
	repo := &orderRepoMock{}
	repo.On("SelectVoucherAmount", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything).Return(ptr(1), nil)

	_, err := NewVoucherService(repo, nil, WithTimeout(time.Second)).
		ComputeVoucherAmount(context.Background(), VoucherRequest{})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestComputeVoucherAmount_UsesCache(t *testing.T) {
	repo := &orderRepoMock{}
	repo.On("SelectVoucherAmount", mock.Anything, mock.Anything).Return(nil, nil).Once()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := NewVoucherService(repo, nil,
		WithCache(cache.NewVoucherCache(cache.NewMemoryStore(), "orders", time.Minute)),
		WithClock(clock.NewFakeClock(time.Date(2020, 5, 20, 12, 0, 0, 0, time.UTC))),
		WithMetrics(m),
	)

	req := VoucherRequest{CountryCode: ptr("InVaLiD")}
	for i := 0; i < 3; i++ {
		got, err := svc.ComputeVoucherAmount(context.Background(), req)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	repo.AssertNumberOfCalls(t, "SelectVoucherAmount", 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues(metrics.CacheHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues(metrics.CacheMiss)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.VoucherLookups.WithLabelValues(metrics.OutcomeNoMatch)))
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, models.VoucherSelectionFilter, time.Time) (*int, bool, error) {
	return nil, false, errors.New("redis down")
}

func (brokenCache) Set(context.Context, models.VoucherSelectionFilter, time.Time, *int) error {
	return errors.New("redis down")
}

func TestComputeVoucherAmount_CacheFailureFallsBackToStore(t *testing.T) {
	repo := &orderRepoMock{}
	repo.On("SelectVoucherAmount", mock.Anything, mock.Anything).Return(ptr(5940), nil)

	got, err := NewVoucherService(repo, nil, WithCache(brokenCache{})).
		ComputeVoucherAmount(context.Background(), VoucherRequest{CountryCode: ptr("Latvia")})
	require.NoError(t, err)
	assert.Equal(t, ptr(5940), got)
}
