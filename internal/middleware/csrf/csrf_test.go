package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCSRFEcho() *echo.Echo {
	cfg := DefaultConfig()
	cfg.SkipPaths = []string{"/auth/login"}

	e := echo.New()
	e.Use(Middleware(cfg))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/things", ok)
	e.POST("/things", ok)
	e.POST("/auth/login", ok)
	return e
}

func TestCSRF_IssuesTokenOnSafeMethods(t *testing.T) {
	e := newCSRFEcho()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "XSRF-TOKEN", cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
}

func TestCSRF_UnsafeMethods(t *testing.T) {
	e := newCSRFEcho()

	tests := []struct {
		name   string
		path   string
		cookie string
		header string
		origin string
		bearer bool
		want   int
	}{
		{name: "matching token", path: "/things", cookie: "tok", header: "tok", origin: "http://example.com", want: http.StatusNoContent},
		{name: "missing header", path: "/things", cookie: "tok", origin: "http://example.com", want: http.StatusForbidden},
		{name: "mismatched token", path: "/things", cookie: "tok", header: "other", origin: "http://example.com", want: http.StatusForbidden},
		{name: "foreign origin", path: "/things", cookie: "tok", header: "tok", origin: "http://evil.test", want: http.StatusForbidden},
		{name: "skipped path", path: "/auth/login", want: http.StatusNoContent},
		{name: "bearer client", path: "/things", bearer: true, want: http.StatusNoContent},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("X-CSRF-Token", tt.header)
			}
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.bearer {
				req.Header.Set(echo.HeaderAuthorization, "Bearer abc")
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
