package entitlement

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ParsePublicKey decodes the configured base64 Ed25519 verification key.
// An empty value is allowed and yields a nil key, which disables token
// verification (every caller is then unauthenticated).
func ParsePublicKey(encoded string) (ed25519.PublicKey, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, nil
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(encoded)
	}
	if err != nil {
		return nil, fmt.Errorf("decode user token public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("user token public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

// verifyUserToken validates the signed user token and returns the user ID
// from its subject claim.  Any defect (missing token, bad signature,
// expired claims, empty subject) yields ("", false); the gate treats all
// of those identically as "unauthenticated".
func verifyUserToken(token string, key ed25519.PublicKey) (string, bool) {
	token = strings.TrimSpace(token)
	if token == "" || len(key) != ed25519.PublicKeySize {
		return "", false
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{"EdDSA"}))
	if err != nil {
		return "", false
	}

	userID := strings.TrimSpace(claims.Subject)
	if userID == "" {
		return "", false
	}
	return userID, true
}
