package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := Hasher{Cost: bcrypt.MinCost}

	hash, version, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.Equal(t, HashVersionBcrypt, version)

	assert.NoError(t, VerifyPassword(hash, "correct horse"))
	assert.Error(t, VerifyPassword(hash, "wrong horse"))
}

func TestHasher_RejectsShortPassword(t *testing.T) {
	_, _, err := Hasher{Cost: bcrypt.MinCost}.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}
