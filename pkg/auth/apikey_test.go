package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAPIKeyVerifierPlaintext(t *testing.T) {
	v := NewAPIKeyVerifier([]APIKey{
		{Name: "ci", Key: "key-one"},
		{Name: "ops", Key: "key-two"},
	})

	identity, ok := v.Verify("key-two")
	require.True(t, ok)
	assert.Equal(t, "ops", identity.Name)
	assert.Equal(t, "ops", identity.Subject)

	_, ok = v.Verify("key-three")
	assert.False(t, ok)
}

func TestAPIKeyVerifierBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	v := NewAPIKeyVerifier([]APIKey{{Name: "hashed", Hash: string(hash)}})

	identity, ok := v.Verify("hunter2")
	require.True(t, ok)
	assert.Equal(t, "hashed", identity.Name)

	_, ok = v.Verify("hunter3")
	assert.False(t, ok)
}

func TestAPIKeyVerifierEmpty(t *testing.T) {
	v := NewAPIKeyVerifier(nil)
	_, ok := v.Verify("anything")
	assert.False(t, ok)

	v = NewAPIKeyVerifier([]APIKey{{Name: "blank"}})
	_, ok = v.Verify("")
	assert.False(t, ok, "empty credential never matches")
	_, ok = v.Verify("anything")
	assert.False(t, ok, "key with no material never matches")
}
