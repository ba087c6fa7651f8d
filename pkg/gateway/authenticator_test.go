package gateway

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainAuthenticatorAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.APIKeys = []APIKeyDef{{Name: "ci", Key: "key-one"}}

	g := newTestGateway(t, cfg)
	authenticator := g.Authenticator()

	identity, ok := authenticator.Authenticate("key-one")
	require.True(t, ok)
	assert.Equal(t, "ci", identity.Name)

	_, ok = authenticator.Authenticate("wrong-key")
	assert.False(t, ok)
}

func TestChainAuthenticatorJWTFallback(t *testing.T) {
	const secret = "jwt-test-secret"

	cfg := testConfig()
	cfg.Auth.JWT.Secret = secret
	cfg.Auth.APIKeys = []APIKeyDef{{Name: "ci", Key: "key-one"}}

	g := newTestGateway(t, cfg)
	authenticator := g.Authenticator()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-42",
		"name": "Pat",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	identity, ok := authenticator.Authenticate(signed)
	require.True(t, ok)
	assert.Equal(t, "user-42", identity.Subject)
	assert.Equal(t, "Pat", identity.Name)

	// API keys still win over the JWT path.
	identity, ok = authenticator.Authenticate("key-one")
	require.True(t, ok)
	assert.Equal(t, "ci", identity.Name)

	_, ok = authenticator.Authenticate("not-a-jwt")
	assert.False(t, ok)
}
