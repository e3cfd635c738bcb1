package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
)

func TestTokenManagerRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "avina", 15*time.Minute, 24*time.Hour)

	token, claims, err := tm.GenerateToken("u-1", domain.SubjectKindUser, TokenTypeAccess, "pair-1")
	require.NoError(t, err)
	assert.NotEmpty(t, claims.TokenID())

	parsed, err := tm.ParseToken(token, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "u-1", parsed.SubjectID())
	assert.Equal(t, domain.SubjectKindUser, parsed.Kind)
	assert.Equal(t, "pair-1", parsed.PairID)
	assert.Equal(t, claims.TokenID(), parsed.TokenID())
	assert.Equal(t, claims.ExpiresAt.Time, parsed.ExpiresAt.Time)
}

func TestTokenManagerRejects(t *testing.T) {
	tm := NewTokenManager("secret", "avina", 15*time.Minute, 24*time.Hour)

	t.Run("wrong type", func(t *testing.T) {
		refresh, _, err := tm.GenerateToken("o-1", domain.SubjectKindOwner, TokenTypeRefresh, "pair")
		require.NoError(t, err)

		_, err = tm.ParseToken(refresh, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("foreign signature", func(t *testing.T) {
		other := NewTokenManager("other-secret", "avina", 15*time.Minute, 24*time.Hour)
		token, _, err := other.GenerateToken("u-1", domain.SubjectKindUser, TokenTypeAccess, "pair")
		require.NoError(t, err)

		_, err = tm.ParseToken(token, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		other := NewTokenManager("secret", "someone-else", 15*time.Minute, 24*time.Hour)
		token, _, err := other.GenerateToken("u-1", domain.SubjectKindUser, TokenTypeAccess, "pair")
		require.NoError(t, err)

		_, err = tm.ParseToken(token, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.ParseToken("not-a-jwt", TokenTypeAccess)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		now := time.Now()
		clock := func() time.Time { return now }
		tm := NewTokenManager("secret", "avina", time.Minute, time.Hour).WithClock(clock)

		token, _, err := tm.GenerateToken("u-1", domain.SubjectKindUser, TokenTypeAccess, "pair")
		require.NoError(t, err)

		now = now.Add(2 * time.Minute)
		_, err = tm.ParseToken(token, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}
