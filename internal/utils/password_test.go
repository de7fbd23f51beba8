package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailsuite/finance-ledger/internal/utils"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := utils.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, utils.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, utils.CheckPasswordHash("wrong password", hash))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	h1, err := utils.HashPassword("same-password")
	require.NoError(t, err)
	h2, err := utils.HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
