package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateTokenIsURLSafe(t *testing.T) {
	token, err := GenerateToken(TokenSize512)
	require.NoError(t, err)

	// 64 bytes -> 86 chars of unpadded base64url.
	require.Len(t, token, 86)
	require.NotContains(t, token, "+")
	require.NotContains(t, token, "/")
	require.NotContains(t, token, "=")

	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)
	require.Len(t, raw, TokenSize512)
}

func TestGenerateTokenNeverRepeats(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for range 1000 {
		token, err := GenerateToken(TokenSize256)
		require.NoError(t, err)
		require.False(t, seen[token], "duplicate opaque token")
		seen[token] = true
	}
}

func TestGenerateTokenRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1, -64} {
		_, err := GenerateToken(size)
		require.Error(t, err)
	}
}
