package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.NoError(t, h.Compare(hash, "s3cret-pass"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), ErrPasswordMismatch)
}

func TestHasher_HashIsSalted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	first, err := h.Hash("same-password")
	require.NoError(t, err)
	second, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHasher_RejectsBadInput(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	_, err := h.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)

	_, err = h.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestHasher_CompareMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	assert.ErrorIs(t, h.Compare("not-a-hash", "anything"), ErrPasswordMismatch)
}

func TestNewHasher_Cost(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"min cost", bcrypt.MinCost, bcrypt.MinCost},
		{"configured cost", 10, 10},
		{"zero falls back", 0, DefaultBcryptCost},
		{"too high falls back", bcrypt.MaxCost + 1, DefaultBcryptCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewHasher(tt.in).Cost())
		})
	}
}

func TestHasher_UsesConfiguredCost(t *testing.T) {
	h := NewHasher(5)
	hash, err := h.Hash("password")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)
}
