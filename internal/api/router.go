package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Cheertaboi/voucher-selection-service/internal/api/handlers"
	"github.com/Cheertaboi/voucher-selection-service/internal/api/middleware"
	"github.com/Cheertaboi/voucher-selection-service/internal/metrics"
)

// NewRouter builds the HTTP router for the voucher-selection service
func NewRouter(svc handlers.VoucherComputer, m *metrics.Metrics, gatherer prometheus.Gatherer, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(log))
	if m != nil {
		r.Use(middleware.Metrics(m))
	}

	voucherHandler := handlers.NewVoucherHandler(svc, log)

	r.Get("/ping", voucherHandler.Ping)
	r.Post("/voucher", voucherHandler.SelectVoucher)

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
