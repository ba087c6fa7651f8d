// Package httpmiddleware provides HTTP middleware for the gateway's
// streamable HTTP transport.
package httpmiddleware

import (
	"net/http"
	"strings"

	"github.com/dbfabric/mcp-connect-gateway/pkg/auth"
)

// Authenticator resolves a presented credential to an identity.
type Authenticator interface {
	Authenticate(credential string) (auth.Identity, bool)
}

// extractCredential pulls a bearer token or X-API-Key value from r.
func extractCredential(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.Header.Get("X-API-Key")
}

// Auth returns middleware that extracts credentials and, when an
// authenticator is provided, resolves them to an identity in the request
// context. With required set, requests without a valid credential get 401.
func Auth(authenticator Authenticator, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := extractCredential(r)
			if credential == "" {
				if required {
					w.Header().Set("WWW-Authenticate", "Bearer")
					http.Error(w, "Unauthorized: missing authentication token", http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.WithToken(r.Context(), credential)
			if authenticator != nil {
				identity, ok := authenticator.Authenticate(credential)
				if !ok {
					if required {
						http.Error(w, "Unauthorized: invalid credential", http.StatusUnauthorized)
						return
					}
				} else {
					ctx = auth.WithIdentity(ctx, identity)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
