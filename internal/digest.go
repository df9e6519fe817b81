package internal

import (
	"crypto/sha256"
	"encoding/base64"
)

// TokenDigest derives the revocation key for a raw bearer token without
// decoding it. Access tokens are blacklisted by digest because the
// membership check runs before any parse work and their claim sets carry no
// token identifier.
func TokenDigest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
