// Package auth provides credential checking for the HTTP transport:
// API-key verification and bearer-token claim extraction.
package auth

import "context"

// contextKey is a private type for context keys.
type contextKey int

const (
	tokenKey contextKey = iota
	identityKey
)

// Identity describes the authenticated caller.
type Identity struct {
	Subject string
	Name    string
}

// WithToken stores a raw credential in the context.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFrom retrieves the raw credential from the context.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// WithIdentity stores the authenticated identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom retrieves the authenticated identity from the context.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
