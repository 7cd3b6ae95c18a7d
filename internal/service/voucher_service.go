package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Cheertaboi/voucher-selection-service/internal/clock"
	"github.com/Cheertaboi/voucher-selection-service/internal/metrics"
	"github.com/Cheertaboi/voucher-selection-service/internal/models"
)

// OrderRepo runs the aggregate voucher query (use interfaces to allow mocking).
type OrderRepo interface {
	SelectVoucherAmount(ctx context.Context, f models.VoucherSelectionFilter) (*int, error)
}

// ResultCache memoises selections. Optional.
type ResultCache interface {
	Get(ctx context.Context, f models.VoucherSelectionFilter, now time.Time) (*int, bool, error)
	Set(ctx context.Context, f models.VoucherSelectionFilter, now time.Time, amount *int) error
}

// VoucherRequest carries the optional segment attributes of a customer.
type VoucherRequest struct {
	CountryCode      *string
	FrequencySegment *string
	RecencySegment   *string
}

type VoucherService struct {
	repo    OrderRepo
	cache   ResultCache
	clock   clock.Clock
	timeout time.Duration
	metrics *metrics.Metrics
	log     *zap.Logger
}

type Option func(*VoucherService)

func WithCache(c ResultCache) Option {
	return func(s *VoucherService) { s.cache = c }
}

func WithClock(c clock.Clock) Option {
	return func(s *VoucherService) { s.clock = c }
}

// WithTimeout bounds each selection; zero disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *VoucherService) { s.timeout = d }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *VoucherService) { s.metrics = m }
}

func NewVoucherService(repo OrderRepo, log *zap.Logger, opts ...Option) *VoucherService {
	s := &VoucherService{
		repo:    repo,
		clock:   clock.System(),
		timeout: 8 * time.Second,
		log:     log,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputeVoucherAmount selects the voucher amount for the segment described
// by req. A nil amount with a nil error means no historical order matched.
func (s *VoucherService) ComputeVoucherAmount(ctx context.Context, req VoucherRequest) (*int, error) {
	f, err := BuildFilter(req.CountryCode, req.FrequencySegment, req.RecencySegment)
	if err != nil {
		s.metrics.Lookup(metrics.OutcomeError)
		return nil, err
	}

	if s.timeout > 0 {
		// short request-scoped deadline to avoid long-running ops
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	now := s.clock.Now()
	if s.cache != nil {
		amount, hit, err := s.cache.Get(ctx, f, now)
		switch {
		case err != nil:
			s.metrics.Cache(metrics.CacheError)
			s.log.Warn("voucher cache get failed", zap.Error(err))
		case hit:
			s.metrics.Cache(metrics.CacheHit)
			s.metrics.Lookup(outcome(amount))
			return amount, nil
		default:
			s.metrics.Cache(metrics.CacheMiss)
		}
	}

	amount, err := s.repo.SelectVoucherAmount(ctx, f)
	if err != nil {
		s.metrics.Lookup(metrics.OutcomeError)
		return nil, err
	}
	s.metrics.Lookup(outcome(amount))

	if s.cache != nil {
		if err := s.cache.Set(ctx, f, now, amount); err != nil {
			s.log.Warn("voucher cache set failed", zap.Error(err))
		}
	}
	return amount, nil
}

func outcome(amount *int) string {
	if amount == nil {
		return metrics.OutcomeNoMatch
	}
	return metrics.OutcomeMatch
}
