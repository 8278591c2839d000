package handler

import (
	"errors"
	"net/http"

	"craft-store/internal/middleware"
	"craft-store/internal/model"
	"craft-store/internal/service"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	session := middleware.SessionFromContext(c)

	resp, err := h.orderService.Checkout(c.Request().Context(), session.UserID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// CaptureSuccess is the PayPal return URL. The buyer lands here after
// approving the order; capturing triggers the provider capture event,
// and the webhook reconciliation marks the order paid.
func (h *OrderHandler) CaptureSuccess(c echo.Context) error {
	orderID := c.QueryParam("token")
	if orderID == "" {
		return c.String(http.StatusBadRequest, "missing order token")
	}

	if err := h.orderService.CaptureApprovedOrder(c.Request().Context(), orderID); err != nil {
		return err
	}

	html := `
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="utf-8">
		<title>Payment Processing</title>
	</head>
	<body>
		<h2>Payment approved</h2>
		<p>We are confirming your payment. Your order will show as paid shortly.</p>
		<p><a href="/">Back to the shop</a></p>
	</body>
	</html>
	`

	return c.HTML(http.StatusOK, html)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	session := middleware.SessionFromContext(c)
	isAdmin := session.Role == model.RoleAdmin

	order, err := h.orderService.GetOrder(c.Request().Context(), c.Param("id"), session.UserID, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrNotOrderOwner):
			return echo.NewHTTPError(http.StatusForbidden, "order belongs to another user")
		}
		return err
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListOwnOrders(c echo.Context) error {
	session := middleware.SessionFromContext(c)

	orders, err := h.orderService.ListUserOrders(c.Request().Context(), session.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	orders, err := h.orderService.ListAllOrders(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) MarkDelivered(c echo.Context) error {
	err := h.orderService.MarkDelivered(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no paid order to deliver")
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"delivered": true})
}
