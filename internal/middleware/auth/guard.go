package auth

import (
	"errors"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_api/internal/logging"
	"github.com/Skotchmaster/catalog_api/internal/models"
	"github.com/Skotchmaster/catalog_api/internal/tokens"
)

const (
	ctxClaims = "claims"
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// Policy maps a route key ("PATCH /users/:id/role") to the roles allowed on
// it. Routes missing from the table only need a valid session.
type Policy map[string][]models.Role

func RouteKey(method, path string) string {
	return method + " " + path
}

func (p Policy) Allow(method, path string, roles ...models.Role) {
	p[RouteKey(method, path)] = roles
}

// Permits reports whether role may call the route. Any route whose path has
// a role segment is admin only regardless of the table.
func (p Policy) Permits(method, path string, role models.Role) bool {
	if hasRoleSegment(path) && role != models.RoleAdmin {
		return false
	}
	allowed, ok := p[RouteKey(method, path)]
	if !ok {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func hasRoleSegment(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if seg == "role" || seg == "roles" {
			return true
		}
	}
	return false
}

type Guard struct {
	Secret []byte
	Policy Policy

	verify echo.MiddlewareFunc
}

func NewGuard(secret []byte, policy Policy) *Guard {
	if policy == nil {
		policy = Policy{}
	}
	g := &Guard{Secret: secret, Policy: policy}
	g.verify = echojwt.WithConfig(echojwt.Config{
		ContextKey:  ctxClaims,
		TokenLookup: "cookie:" + tokens.CookieName + ",header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(_ echo.Context, raw string) (any, error) {
			return tokens.AccessClaimsFromToken(raw, g.Secret)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			l := logging.FromContext(c.Request().Context()).With("guard", "auth")
			if errors.Is(err, echojwt.ErrJWTMissing) {
				l.Warn("auth_failed", "status", 401, "reason", "missing access token")
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}
			l.Warn("auth_failed", "status", 401, "reason", "invalid access token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		},
	})
	return g
}

// RequireAuth rejects requests without a valid session token, read from the
// session cookie or a Bearer header, and then applies the role policy of the
// matched route.
func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return g.verify(g.authorize(next))
}

func (g *Guard) authorize(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("guard", "auth")

		claims, ok := ClaimsFrom(c)
		if !ok {
			l.Warn("auth_failed", "status", 401, "reason", "claims missing")
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		userID, err := claims.UserID()
		if err != nil {
			l.Warn("auth_failed", "status", 401, "reason", "invalid subject", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		role := models.Role(claims.Role)
		if !g.Policy.Permits(c.Request().Method, c.Path(), role) {
			l.Warn("auth_failed", "status", 403, "reason", "role not allowed", "role", role, "route", c.Path())
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}

		setUserContext(c, claims, userID)
		return next(c)
	}
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims, userID uint) {
	c.Set(ctxClaims, claims)
	c.Set(ctxUserID, userID)
	c.Set(ctxRole, models.Role(claims.Role))
}

func ClaimsFrom(c echo.Context) (*tokens.AccessClaims, bool) {
	claims, ok := c.Get(ctxClaims).(*tokens.AccessClaims)
	return claims, ok
}

func UserFrom(c echo.Context) (uint, models.Role, bool) {
	id, ok := c.Get(ctxUserID).(uint)
	if !ok {
		return 0, "", false
	}
	role, _ := c.Get(ctxRole).(models.Role)
	return id, role, true
}
