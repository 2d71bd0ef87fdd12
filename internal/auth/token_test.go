package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenManager(now time.Time) *TokenManager {
	m := NewTokenManager("test-secret", 24*time.Hour)
	m.now = func() time.Time { return now }
	return m
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	m := newTestTokenManager(now)

	token, expiresAt, err := m.Issue("inspector-014")
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), expiresAt)

	accountID, exp, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "inspector-014", accountID)
	assert.True(t, exp.Equal(expiresAt))

	accountID, _, err = m.FromHeader("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "inspector-014", accountID)
}

func TestTokenManager_Rejects(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	m := newTestTokenManager(now)
	token, _, err := m.Issue("inspector-014")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := newTestTokenManager(now.Add(25 * time.Hour))
		_, _, err := later.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager("other-secret", time.Hour)
		other.now = m.now
		_, _, err := other.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no expiry", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x", "iss": issuer}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, _, err = m.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "x", "iss": "someone-else", "exp": now.Add(time.Hour).Unix(),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, _, err = m.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("not a bearer header", func(t *testing.T) {
		_, _, err := m.FromHeader("Basic dXNlcjpwYXNz")
		assert.ErrorIs(t, err, ErrInvalidToken)
		_, _, err = m.FromHeader("Bearer ")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	_, _, err = m.Issue("")
	assert.Error(t, err)
}
