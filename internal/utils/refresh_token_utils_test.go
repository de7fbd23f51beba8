package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailsuite/finance-ledger/internal/utils"
)

func TestGenerateSecureRandomString(t *testing.T) {
	s1, err := utils.GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.Len(t, s1, 64) // hex encoding doubles the byte length

	s2, err := utils.GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)
}

func TestRefreshTokenHashRoundTrip(t *testing.T) {
	token, err := utils.GenerateSecureRandomString(32)
	require.NoError(t, err)

	hash := utils.HashRefreshToken(token)
	assert.NotEqual(t, token, hash)
	assert.True(t, utils.CompareRefreshTokenHash(token, hash))
	assert.False(t, utils.CompareRefreshTokenHash("other-token", hash))
}
