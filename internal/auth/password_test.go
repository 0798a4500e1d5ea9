package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, IsHash(hash))

	assert.True(t, h.Verify(hash, "secret1"))
	assert.False(t, h.Verify(hash, "secret2"))
	assert.False(t, h.Verify("not-a-hash", "secret1"))
}

func TestPasswordHasher_VerifyShared(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	hash, err := h.Hash("plage2024")
	require.NoError(t, err)

	ok, legacy := h.VerifyShared(hash, "plage2024")
	assert.True(t, ok)
	assert.False(t, legacy)

	ok, legacy = h.VerifyShared(hash, "wrong")
	assert.False(t, ok)
	assert.False(t, legacy)

	ok, legacy = h.VerifyShared("plage2024", "plage2024")
	assert.True(t, ok)
	assert.True(t, legacy)

	ok, _ = h.VerifyShared("plage2024", "plage")
	assert.False(t, ok)

	ok, _ = h.VerifyShared("", "")
	assert.False(t, ok)
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: 3, Username: "u"})
	id, ok := IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), id.UserID)

	_, ok = IdentityFrom(WithIdentity(context.Background(), Identity{}))
	assert.False(t, ok)
}
