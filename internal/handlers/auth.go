package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_api/internal/logging"
	authmw "github.com/Skotchmaster/catalog_api/internal/middleware/auth"
	"github.com/Skotchmaster/catalog_api/internal/service"
	"github.com/Skotchmaster/catalog_api/internal/tokens"
	"github.com/Skotchmaster/catalog_api/internal/transport"
)

type AuthHandler struct {
	Svc          *service.AuthService
	CookieSecure bool
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bind(c, l, "register", &req); err != nil {
		return err
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "user registered",
		"user":    user,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bind(c, l, "login", &req); err != nil {
		return err
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login", err)
	}

	c.SetCookie(tokens.CreateCookie(tokens.CookieName, res.AccessToken, "/", res.ExpiresAt, h.CookieSecure))

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		Message:   "login successful",
		Token:     res.AccessToken,
		ExpiresAt: res.ExpiresAt.Unix(),
	})
}

func (h *AuthHandler) Status(c echo.Context) error {
	claims, ok := authmw.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	user := echo.Map{
		"sub":      claims.Subject,
		"username": claims.Username,
		"role":     claims.Role,
	}
	if claims.ExpiresAt != nil {
		user["exp"] = claims.ExpiresAt.Unix()
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "authenticated",
		"user":    user,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth.logout")

	c.SetCookie(tokens.DeleteCookie(tokens.CookieName, "/", h.CookieSecure))

	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
