package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_IssueAndVerify(t *testing.T) {
	codec := NewCodec("test-secret", 30*time.Minute, 7*24*time.Hour)

	t.Run("round trips an access token", func(t *testing.T) {
		signed, err := codec.Issue("user-1", KindAccess)
		require.NoError(t, err)
		require.NotEmpty(t, signed)

		claims, err := codec.Verify(signed)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject())
		assert.Equal(t, KindAccess, claims.Kind)
	})

	t.Run("round trips a refresh token", func(t *testing.T) {
		signed, err := codec.Issue("user-1", KindRefresh)
		require.NoError(t, err)

		claims, err := codec.Verify(signed)
		require.NoError(t, err)
		assert.Equal(t, KindRefresh, claims.Kind)
	})

	t.Run("kinds get their own lifetimes", func(t *testing.T) {
		access, err := codec.Issue("user-1", KindAccess)
		require.NoError(t, err)
		refresh, err := codec.Issue("user-1", KindRefresh)
		require.NoError(t, err)

		accessClaims, err := codec.Verify(access)
		require.NoError(t, err)
		refreshClaims, err := codec.Verify(refresh)
		require.NoError(t, err)

		assert.True(t, refreshClaims.ExpiresAt.After(accessClaims.ExpiresAt.Time))
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		shortLived := NewCodec("test-secret", -time.Minute, -time.Minute)
		signed, err := shortLived.Issue("user-1", KindAccess)
		require.NoError(t, err)

		_, err = codec.Verify(signed)
		assert.ErrorIs(t, err, ErrExpired)
	})

	t.Run("rejects a token signed with a different secret", func(t *testing.T) {
		other := NewCodec("other-secret", 30*time.Minute, 7*24*time.Hour)
		signed, err := other.Issue("user-1", KindAccess)
		require.NoError(t, err)

		_, err = codec.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, tok := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
			_, err := codec.Verify(tok)
			assert.ErrorIs(t, err, ErrMalformed, "token %q", tok)
		}
	})

	t.Run("rejects a tampered payload", func(t *testing.T) {
		signed, err := codec.Issue("user-1", KindAccess)
		require.NoError(t, err)

		tampered := signed[:len(signed)-2] + "xx"
		_, err = codec.Verify(tampered)
		assert.Error(t, err)
	})

	t.Run("zero TTLs fall back to defaults", func(t *testing.T) {
		defaulted := NewCodec("test-secret", 0, 0)
		signed, err := defaulted.Issue("user-1", KindAccess)
		require.NoError(t, err)

		claims, err := defaulted.Verify(signed)
		require.NoError(t, err)
		remaining := time.Until(claims.ExpiresAt.Time)
		assert.Greater(t, remaining, 29*time.Minute)
		assert.LessOrEqual(t, remaining, 30*time.Minute)
	})
}
