package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/catalog_api/internal/models"
	"github.com/Skotchmaster/catalog_api/internal/tokens"
)

var secret = []byte("guard-secret")

func newGuardedEcho(t *testing.T) *echo.Echo {
	t.Helper()

	policy := Policy{}
	policy.Allow(http.MethodPost, "/tags", models.RoleAdmin)

	g := NewGuard(secret, policy)
	e := echo.New()
	api := e.Group("", g.RequireAuth)

	ok := func(c echo.Context) error {
		id, role, _ := UserFrom(c)
		claims, _ := ClaimsFrom(c)
		return c.JSON(http.StatusOK, echo.Map{"id": id, "role": role, "username": claims.Username})
	}
	api.GET("/tags", ok)
	api.POST("/tags", ok)
	api.PATCH("/users/:id/role", ok)
	return e
}

func token(t *testing.T, id uint, role models.Role, exp time.Time) string {
	t.Helper()
	tok, err := tokens.CreateAccessToken(secret, id, "u", string(role), exp)
	require.NoError(t, err)
	return tok
}

func TestGuard(t *testing.T) {
	e := newGuardedEcho(t)
	userTok := token(t, 7, models.RoleUser, time.Now().Add(time.Hour))
	adminTok := token(t, 1, models.RoleAdmin, time.Now().Add(time.Hour))
	expired := token(t, 7, models.RoleUser, time.Now().Add(-time.Hour))

	tests := []struct {
		name   string
		method string
		path   string
		cookie string
		bearer string
		want   int
	}{
		{name: "no token", method: http.MethodGet, path: "/tags", want: http.StatusUnauthorized},
		{name: "garbage token", method: http.MethodGet, path: "/tags", cookie: "junk", want: http.StatusUnauthorized},
		{name: "expired token", method: http.MethodGet, path: "/tags", cookie: expired, want: http.StatusUnauthorized},
		{name: "user via cookie", method: http.MethodGet, path: "/tags", cookie: userTok, want: http.StatusOK},
		{name: "user via bearer", method: http.MethodGet, path: "/tags", bearer: userTok, want: http.StatusOK},
		{name: "user on admin route", method: http.MethodPost, path: "/tags", cookie: userTok, want: http.StatusForbidden},
		{name: "admin on admin route", method: http.MethodPost, path: "/tags", cookie: adminTok, want: http.StatusOK},
		{name: "user on role route", method: http.MethodPatch, path: "/users/7/role", cookie: userTok, want: http.StatusForbidden},
		{name: "admin on role route", method: http.MethodPatch, path: "/users/7/role", bearer: adminTok, want: http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: tokens.CookieName, Value: tt.cookie})
			}
			if tt.bearer != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+tt.bearer)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestGuard_SetsUserContext(t *testing.T) {
	e := newGuardedEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/tags", nil)
	req.AddCookie(&http.Cookie{Name: tokens.CookieName, Value: token(t, 7, models.RoleUser, time.Now().Add(time.Hour))})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":7,"role":"user","username":"u"}`, rec.Body.String())
}

func TestPolicy_Permits(t *testing.T) {
	p := Policy{}
	p.Allow(http.MethodGet, "/users", models.RoleAdmin)

	assert.False(t, p.Permits(http.MethodGet, "/users", models.RoleUser))
	assert.True(t, p.Permits(http.MethodGet, "/users", models.RoleAdmin))
	assert.True(t, p.Permits(http.MethodGet, "/users/:id", models.RoleUser))
	assert.False(t, p.Permits(http.MethodPatch, "/users/:id/role", models.RoleUser))
	assert.True(t, p.Permits(http.MethodPatch, "/users/:id/role", models.RoleAdmin))
	assert.True(t, p.Permits(http.MethodGet, "/products/roleplay", models.RoleUser), "only whole segments count")
}
