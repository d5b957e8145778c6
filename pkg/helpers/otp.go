package helpers

import (
	"crypto/rand"
	"encoding/base32"
)

// GenTwoFactorSecret generates a base32 secret suitable for authenticator
// apps. Only the enrollment record is stored here; challenge flows are
// handled by the delivery channel (phone/email/app).
func GenTwoFactorSecret() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b), nil
}
