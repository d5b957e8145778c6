package hashing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Low-cost params keep the test suite fast; correctness does not depend on cost.
func testHasher() *Hasher {
	return New(Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
}

func TestHashAndVerify(t *testing.T) {
	h := testHasher()

	digest, err := h.Hash("Secret123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$argon2id$"))

	assert.True(t, h.Verify(digest, "Secret123"))
	assert.False(t, h.Verify(digest, "secret123"))
	assert.False(t, h.Verify(digest, ""))
}

func TestHashEmptyPassword(t *testing.T) {
	h := testHasher()
	_, err := h.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestHashSaltsDiffer(t *testing.T) {
	h := testHasher()

	d1, err := h.Hash("same-password")
	require.NoError(t, err)
	d2, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2)
	assert.True(t, h.Verify(d1, "same-password"))
	assert.True(t, h.Verify(d2, "same-password"))
}

func TestVerifyFailsClosed(t *testing.T) {
	h := testHasher()

	for _, digest := range []string{
		"",
		"not-a-digest",
		"$argon2id$v=19$m=8192,t=1,p=1$short",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdHNhbHQ$aGFzaA",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHQ$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA",
	} {
		assert.False(t, h.Verify(digest, "whatever"), "digest %q should not verify", digest)
	}
}

func TestDefaultParams(t *testing.T) {
	h := New(DefaultParams())
	digest, err := h.Hash("p")
	require.NoError(t, err)
	assert.True(t, h.Verify(digest, "p"))
}
