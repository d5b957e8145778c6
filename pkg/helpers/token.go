package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// GenToken returns a URL-safe token built from n random bytes.
// Used for both bearer tokens and one-time confirmation/reset tokens.
func GenToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
