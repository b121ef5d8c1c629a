package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	h, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", h)

	assert.True(t, CheckPassword(h, "correct horse battery staple"))
	assert.False(t, CheckPassword(h, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "wrong"))
}

func TestStrength(t *testing.T) {
	assert.LessOrEqual(t, Strength("password"), 1)
	assert.GreaterOrEqual(t, Strength("vH7#qLp2!zR9wKx$"), 3)
	assert.Less(t, Strength("alice2024", "alice"), Strength("vH7#qLp2!zR9wKx$", "alice"))
}
