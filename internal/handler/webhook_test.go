package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"craft-store/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPaymentService struct {
	paypalErr   error
	paystackErr error
	yocoErr     error
}

func (s *stubPaymentService) HandlePaypalWebhook(ctx context.Context, headers http.Header, body []byte) error {
	return s.paypalErr
}

func (s *stubPaymentService) HandlePaystackWebhook(ctx context.Context, headers http.Header, body []byte) error {
	return s.paystackErr
}

func (s *stubPaymentService) HandleYocoWebhook(ctx context.Context, headers http.Header, body []byte) error {
	return s.yocoErr
}

func postWebhook(t *testing.T, h func(echo.Context) error, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/paypal", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestWebhookHandler_AcknowledgesProcessedEvent(t *testing.T) {
	h := NewWebhookHandler(&stubPaymentService{}, zap.NewNop().Sugar())

	rec := postWebhook(t, h.Paypal, `{"event_type":"PAYMENT.CAPTURE.COMPLETED"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
}

func TestWebhookHandler_SignatureFailureIsUnauthorized(t *testing.T) {
	stub := &stubPaymentService{
		paypalErr: fmt.Errorf("%w: verification status \"FAILURE\"", service.ErrSignatureInvalid),
	}
	h := NewWebhookHandler(stub, zap.NewNop().Sugar())

	rec := postWebhook(t, h.Paypal, `{}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookHandler_DisabledProviderIsUnavailable(t *testing.T) {
	stub := &stubPaymentService{
		paystackErr: service.ErrProviderDisabled,
		yocoErr:     service.ErrProviderDisabled,
	}
	h := NewWebhookHandler(stub, zap.NewNop().Sugar())

	rec := postWebhook(t, h.Paystack, `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = postWebhook(t, h.Yoco, `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWebhookHandler_ProcessingFailureIsInternalError(t *testing.T) {
	stub := &stubPaymentService{paypalErr: fmt.Errorf("database is down")}
	h := NewWebhookHandler(stub, zap.NewNop().Sugar())

	rec := postWebhook(t, h.Paypal, `{}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
