package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-jwt-secret")

func TestCreateAccessToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).UTC()
	token, err := CreateAccessToken(secret, 42, "alice", "admin", exp)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := AccessClaimsFromToken(token, secret)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "42", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestAccessClaimsFromToken_Rejects(t *testing.T) {
	t.Parallel()

	expired, err := CreateAccessToken(secret, 1, "bob", "user", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	valid, err := CreateAccessToken(secret, 1, "bob", "user", time.Now().Add(time.Minute))
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, AccessClaims{Username: "bob"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret []byte
	}{
		{name: "expired", token: expired, secret: secret},
		{name: "wrong secret", token: valid, secret: []byte("other")},
		{name: "garbage", token: "not-a-jwt", secret: secret},
		{name: "alg none", token: unsigned, secret: secret},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := AccessClaimsFromToken(tt.token, tt.secret)
			require.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestCookies(t *testing.T) {
	t.Parallel()

	c := CreateCookie(CookieName, "v", "/", time.Now().Add(time.Hour), true)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Greater(t, c.MaxAge, 3500)

	d := DeleteCookie(CookieName, "/", false)
	assert.Equal(t, -1, d.MaxAge)
	assert.Empty(t, d.Value)
}
