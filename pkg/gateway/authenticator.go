package gateway

import (
	"github.com/dbfabric/mcp-connect-gateway/pkg/auth"
	"github.com/dbfabric/mcp-connect-gateway/pkg/httpmiddleware"
)

var _ httpmiddleware.Authenticator = (*ChainAuthenticator)(nil)

// ChainAuthenticator tries the configured API keys first, then falls back
// to bearer-token claim extraction.
type ChainAuthenticator struct {
	keys      *auth.APIKeyVerifier
	jwtSecret string
}

// Authenticate resolves a credential presented on the HTTP transport.
func (a *ChainAuthenticator) Authenticate(credential string) (auth.Identity, bool) {
	if identity, ok := a.keys.Verify(credential); ok {
		return identity, true
	}
	identity, err := auth.ParseBearer(credential, a.jwtSecret)
	if err != nil {
		return auth.Identity{}, false
	}
	return identity, true
}

// Authenticator builds the HTTP-transport authenticator from config.
func (g *Gateway) Authenticator() *ChainAuthenticator {
	keys := make([]auth.APIKey, 0, len(g.config.Auth.APIKeys))
	for _, def := range g.config.Auth.APIKeys {
		keys = append(keys, auth.APIKey{Name: def.Name, Key: def.Key, Hash: def.KeyHash})
	}
	return &ChainAuthenticator{
		keys:      auth.NewAPIKeyVerifier(keys),
		jwtSecret: g.config.Auth.JWT.Secret,
	}
}
