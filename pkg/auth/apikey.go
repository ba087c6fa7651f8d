package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// APIKey defines one accepted key. Either Key (plaintext, compared in
// constant time) or Hash (bcrypt) is set.
type APIKey struct {
	Name string
	Key  string
	Hash string
}

// APIKeyVerifier checks presented credentials against a configured key set.
type APIKeyVerifier struct {
	keys []APIKey
}

// NewAPIKeyVerifier creates a verifier. An empty key set rejects everything.
func NewAPIKeyVerifier(keys []APIKey) *APIKeyVerifier {
	return &APIKeyVerifier{keys: keys}
}

// Verify returns the matching key's identity, or false when no key matches.
func (v *APIKeyVerifier) Verify(presented string) (Identity, bool) {
	if presented == "" {
		return Identity{}, false
	}
	for _, key := range v.keys {
		if key.matches(presented) {
			return Identity{Subject: key.Name, Name: key.Name}, true
		}
	}
	return Identity{}, false
}

func (k APIKey) matches(presented string) bool {
	if k.Hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(k.Hash), []byte(presented)) == nil
	}
	if k.Key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(k.Key), []byte(presented)) == 1
}
