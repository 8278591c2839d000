package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"craft-store/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type WebhookHandler struct {
	paymentService service.PaymentService
	logger         *zap.SugaredLogger
}

func NewWebhookHandler(paymentService service.PaymentService, logger *zap.SugaredLogger) *WebhookHandler {
	return &WebhookHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

func (h *WebhookHandler) Paypal(c echo.Context) error {
	return h.handle(c, h.paymentService.HandlePaypalWebhook)
}

func (h *WebhookHandler) Paystack(c echo.Context) error {
	return h.handle(c, h.paymentService.HandlePaystackWebhook)
}

func (h *WebhookHandler) Yoco(c echo.Context) error {
	return h.handle(c, h.paymentService.HandleYocoWebhook)
}

// handle runs one provider pipeline against the raw request body. Anything
// the service acknowledges answers 200 {received:true}; signature failures
// answer 401 with no processing; everything else is an internal error the
// provider will retry.
func (h *WebhookHandler) handle(c echo.Context, process func(ctx context.Context, headers http.Header, body []byte) error) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	err = process(ctx, c.Request().Header, body)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]bool{"received": true})
	case errors.Is(err, service.ErrSignatureInvalid):
		h.logger.Warnw("webhook signature rejected", "path", c.Path(), "error", err)
		return c.NoContent(http.StatusUnauthorized)
	case errors.Is(err, service.ErrProviderDisabled):
		return c.NoContent(http.StatusServiceUnavailable)
	default:
		h.logger.Errorw("webhook processing failed", "path", c.Path(), "error", err)
		return c.NoContent(http.StatusInternalServerError)
	}
}
