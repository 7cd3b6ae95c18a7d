package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/voucher-selection-service/internal/models"
	"github.com/Cheertaboi/voucher-selection-service/internal/service"
)

type fakeService struct {
	amount *int
	err    error
	got    service.VoucherRequest
}

func (f *fakeService) ComputeVoucherAmount(_ context.Context, req service.VoucherRequest) (*int, error) {
	f.got = req
	return f.amount, f.err
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/voucher", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestSelectVoucher_Match(t *testing.T) {
	amount := 5940
	svc := &fakeService{amount: &amount}
	h := NewVoucherHandler(svc, nil)

	rec := post(h.SelectVoucher, `{"country_code":"Latvia","frequency_segment":"1-3","customer_id":7}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"voucher_amount":5940}`, rec.Body.String())
	require.NotNil(t, svc.got.CountryCode)
	assert.Equal(t, "Latvia", *svc.got.CountryCode)
	assert.Equal(t, "1-3", *svc.got.FrequencySegment)
	assert.Nil(t, svc.got.RecencySegment)
}

func TestSelectVoucher_ZeroAmountIsNotNoContent(t *testing.T) {
	zero := 0
	rec := post(NewVoucherHandler(&fakeService{amount: &zero}, nil).SelectVoucher, `{}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"voucher_amount":0}`, rec.Body.String())
}

func TestSelectVoucher_NoMatch(t *testing.T) {
	rec := post(NewVoucherHandler(&fakeService{}, nil).SelectVoucher, `{"country_code":"InVaLiD"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestSelectVoucher_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"missing body", "", nil, http.StatusUnprocessableEntity, "body_required"},
		{"malformed body", "{", nil, http.StatusUnprocessableEntity, "invalid_body"},
		{"wrong field type", `{"country_code": 5}`, nil, http.StatusUnprocessableEntity, "invalid_body"},
		{"null body", "null", nil, http.StatusUnprocessableEntity, "invalid_body"},
		{"array body", "[]", nil, http.StatusUnprocessableEntity, "invalid_body"},
		{"bad segment", `{}`, fmt.Errorf("frequency_segment: %w", service.ErrInvalidSegmentFormat), http.StatusUnprocessableEntity, "invalid_segment"},
		{"range overflow", `{}`, models.ErrRangeOverflow, http.StatusInternalServerError, "range_overflow"},
		{"timeout", `{}`, context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
		{"store failure", `{}`, errors.New("connection refused"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(NewVoucherHandler(&fakeService{err: tt.err}, nil).SelectVoucher, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error":"`+tt.wantErr+`"`)
		})
	}
}

func TestPing(t *testing.T) {
	rec := httptest.NewRecorder()
	NewVoucherHandler(&fakeService{}, nil).Ping(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ping":"pong"}`, rec.Body.String())
}

func TestSelectVoucher_NullBodySkipsService(t *testing.T) {
	amount := 1
	svc := &fakeService{amount: &amount}
	rec := post(NewVoucherHandler(svc, nil).SelectVoucher, " null ")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, service.VoucherRequest{}, svc.got)
}
