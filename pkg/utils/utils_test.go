package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("testpassword")
	require.NoError(t, err)
	assert.NotEqual(t, "testpassword", hash)
	assert.True(t, CheckPasswordHash("testpassword", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("alice@demo.com"))
	assert.False(t, IsEmail("not-an-email"))
	assert.False(t, IsEmail(""))
}
