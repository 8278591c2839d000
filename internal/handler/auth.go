package handler

import (
	"errors"
	"net/http"
	"time"

	"craft-store/internal/dto"
	"craft-store/internal/middleware"
	"craft-store/internal/service"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) SignUp(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := h.authService.SignUp(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		}
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"id":    user.ID,
		"email": user.Email,
	})
}

func (h *AuthHandler) SignIn(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	token, err := h.authService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		return err
	}

	setSessionCookie(c, token)

	// Send the caller back where the guard interrupted them.
	callbackURL := c.QueryParam("callbackUrl")
	if callbackURL == "" {
		callbackURL = "/"
	}

	return c.JSON(http.StatusOK, map[string]string{
		"callback_url": callbackURL,
	})
}

func (h *AuthHandler) SignOut(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()

	session := middleware.SessionFromContext(c)
	if session == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "sign in required")
	}

	var req dto.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "new password is required")
	}

	token, err := h.authService.ResetPassword(ctx, session.UserID, req.NewPassword)
	if err != nil {
		return err
	}

	// The fresh token no longer carries the forced-reset flag.
	setSessionCookie(c, token)

	return c.JSON(http.StatusOK, map[string]bool{"reset": true})
}

func setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
