package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 5)

	token, exp, err := tm.GenerateToken("user-1", "a@b.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestParseTokenRejectsOtherSecret(t *testing.T) {
	token, _, err := NewTokenManager("one", 5).GenerateToken("user-1", "a@b.com")
	require.NoError(t, err)

	_, err = NewTokenManager("two", 5).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := tm.GenerateToken("user-1", "a@b.com")
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("ValidPassword123!", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "ValidPassword123!"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
