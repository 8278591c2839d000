package handler

import (
	"errors"
	"net/http"

	"craft-store/internal/dto"
	"craft-store/internal/middleware"
	"craft-store/internal/service"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	products, err := h.catalogService.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	product, err := h.catalogService.GetProductBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) ListCrafters(c echo.Context) error {
	crafters, err := h.catalogService.ListCrafters(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, crafters)
}

func (h *CatalogHandler) GetCrafter(c echo.Context) error {
	crafter, products, err := h.catalogService.GetCrafterBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "crafter not found")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"crafter":  crafter,
		"products": products,
	})
}

// CreateProduct serves the admin back-office; the crafter storefront has
// its own scoped variant below.
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.catalogService.CreateProduct(c.Request().Context(), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.catalogService.UpdateProduct(c.Request().Context(), c.Param("id"), &req, nil)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	if err := h.catalogService.DeleteProduct(c.Request().Context(), c.Param("id"), nil); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) CreateCrafter(c echo.Context) error {
	var req dto.CrafterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	crafter, err := h.catalogService.CreateCrafter(c.Request().Context(), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, crafter)
}

// Crafter-scoped product management. The acting crafter is derived from the
// session user, never from the request body.

func (h *CatalogHandler) ListOwnProducts(c echo.Context) error {
	ctx := c.Request().Context()

	session := middleware.SessionFromContext(c)
	crafter, err := h.catalogService.CrafterForUser(ctx, session.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "no crafter storefront for this account")
	}

	_, products, err := h.catalogService.GetCrafterBySlug(ctx, crafter.Slug)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) CreateOwnProduct(c echo.Context) error {
	ctx := c.Request().Context()

	session := middleware.SessionFromContext(c)
	crafter, err := h.catalogService.CrafterForUser(ctx, session.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "no crafter storefront for this account")
	}

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	req.CrafterID = crafter.ID

	product, err := h.catalogService.CreateProduct(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateOwnProduct(c echo.Context) error {
	ctx := c.Request().Context()

	session := middleware.SessionFromContext(c)
	crafter, err := h.catalogService.CrafterForUser(ctx, session.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "no crafter storefront for this account")
	}

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.catalogService.UpdateProduct(ctx, c.Param("id"), &req, &service.ActorScope{CrafterID: crafter.ID})
	if err != nil {
		if errors.Is(err, service.ErrNotOwner) {
			return echo.NewHTTPError(http.StatusForbidden, "product belongs to another crafter")
		}
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) DeleteOwnProduct(c echo.Context) error {
	ctx := c.Request().Context()

	session := middleware.SessionFromContext(c)
	crafter, err := h.catalogService.CrafterForUser(ctx, session.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "no crafter storefront for this account")
	}

	if err := h.catalogService.DeleteProduct(ctx, c.Param("id"), &service.ActorScope{CrafterID: crafter.ID}); err != nil {
		if errors.Is(err, service.ErrNotOwner) {
			return echo.NewHTTPError(http.StatusForbidden, "product belongs to another crafter")
		}
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
