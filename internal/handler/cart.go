package handler

import (
	"net/http"

	"craft-store/internal/dto"
	"craft-store/internal/middleware"
	"craft-store/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	session := middleware.SessionFromContext(c)

	cart, err := h.cartService.GetCart(c.Request().Context(), session.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	session := middleware.SessionFromContext(c)

	var req dto.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	cart, err := h.cartService.AddItem(c.Request().Context(), session.UserID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	session := middleware.SessionFromContext(c)

	cart, err := h.cartService.RemoveItem(c.Request().Context(), session.UserID, c.Param("productID"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cart)
}
