package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-battery", hash)

	assert.NoError(t, ComparePassword(hash, "correct-horse-battery"))
	assert.ErrorIs(t, ComparePassword(hash, "correct-horse-batterY"), ErrPasswordMismatch)
	assert.ErrorIs(t, ComparePassword(hash, ""), ErrPasswordMismatch)
}

func TestHashPassword_UsesCost(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery", bcrypt.MinCost+1)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
}

func TestComparePassword_MalformedHash(t *testing.T) {
	err := ComparePassword("not-a-hash", "whatever")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestPasswordRoundTrip_LongerThanBcryptLimit(t *testing.T) {
	for _, password := range []string{
		strings.Repeat("a", 80),
		strings.Repeat("é", 40),
	} {
		hash, err := HashPassword(password, bcrypt.MinCost)
		require.NoError(t, err)
		assert.NoError(t, ComparePassword(hash, password))
		assert.ErrorIs(t, ComparePassword(hash, "a-different-password"), ErrPasswordMismatch)
	}
}

func TestBcryptInput(t *testing.T) {
	assert.Len(t, bcryptInput(strings.Repeat("é", 40)), maxPasswordBytes)
	assert.Equal(t, []byte("short"), bcryptInput("short"))
}
