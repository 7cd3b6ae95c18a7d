package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Cheertaboi/voucher-selection-service/internal/models"
	"github.com/Cheertaboi/voucher-selection-service/internal/service"
)

// --- Request / Response DTOs ---

// VoucherRequestBody is the customer description posted to /voucher. Only
// the country and the two segments take part in the selection; the other
// fields are accepted for compatibility and ignored.
type VoucherRequestBody struct {
	CustomerID       *int    `json:"customer_id,omitempty"`
	CountryCode      *string `json:"country_code,omitempty"`
	LastOrderTS      *string `json:"last_order_ts,omitempty"`
	FirstOrderTS     *string `json:"first_order_ts,omitempty"`
	TotalOrders      *int    `json:"total_orders,omitempty"`
	FrequencySegment *string `json:"frequency_segment,omitempty"`
	RecencySegment   *string `json:"recency_segment,omitempty"`
}

type VoucherResponse struct {
	VoucherAmount int `json:"voucher_amount"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// --- Handler struct & constructor ---

type VoucherComputer interface {
	ComputeVoucherAmount(ctx context.Context, req service.VoucherRequest) (*int, error)
}

type VoucherHandler struct {
	service VoucherComputer
	log     *zap.Logger
}

func NewVoucherHandler(svc VoucherComputer, log *zap.Logger) *VoucherHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &VoucherHandler{service: svc, log: log}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// --- Handlers ---

// Ping handles GET /ping
func (h *VoucherHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"ping": "pong"})
}

// SelectVoucher handles POST /voucher
// 200 with the amount when historical orders match, 204 when none do.
func (h *VoucherHandler) SelectVoucher(w http.ResponseWriter, r *http.Request) {
	var req *VoucherRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "body_required"})
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid_body", Detail: err.Error()})
		return
	}
	if req == nil {
		// a literal null decodes without error
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid_body", Detail: "body must be a JSON object"})
		return
	}

	amount, err := h.service.ComputeVoucherAmount(r.Context(), service.VoucherRequest{
		CountryCode:      req.CountryCode,
		FrequencySegment: req.FrequencySegment,
		RecencySegment:   req.RecencySegment,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	if amount == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, VoucherResponse{VoucherAmount: *amount})
}

func (h *VoucherHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSegmentFormat):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid_segment", Detail: err.Error()})
	case errors.Is(err, models.ErrRangeOverflow):
		h.log.Error("voucher selection out of range", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "range_overflow", Detail: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		h.log.Error("voucher selection timed out", zap.Error(err))
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "timeout"})
	default:
		h.log.Error("voucher selection failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error", Detail: err.Error()})
	}
}
