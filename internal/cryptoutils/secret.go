package cryptoutils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// GenerateSessionSecret returns a url-safe secret suitable for cookie
// signing in a provisioned instance. Never logged.
func GenerateSessionSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
