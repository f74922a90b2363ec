package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := Generate("secret", "user-1", "magasinier", "gestion-prep", 5)
	require.NoError(t, err)

	userID, role, err := Parse("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "magasinier", role)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := Generate("secret", "user-1", "admin", "gestion-prep", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	token, err := Generate("secret", "user-1", "admin", "gestion-prep", -1)
	require.NoError(t, err)

	_, _, err = Parse("secret", token)
	assert.Error(t, err)
}

func TestEmptySecret(t *testing.T) {
	_, err := Generate("", "user-1", "admin", "x", 5)
	assert.Error(t, err)
	_, _, err = Parse("", "abc")
	assert.Error(t, err)
}
