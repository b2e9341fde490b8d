package app

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

const secretBytes = 32

// loadOrCreateSecret resolves the JWT signing secret. An explicit value from
// the environment wins; otherwise the secret file is read, and generated on
// first run so restarts keep issued tokens valid.
func loadOrCreateSecret(cfg Config) ([]byte, error) {
	if cfg.JWTSecret != "" {
		return []byte(cfg.JWTSecret), nil
	}

	if data, err := os.ReadFile(cfg.JWTSecretFile); err == nil {
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return nil, fmt.Errorf("jwt secret file %s is empty", cfg.JWTSecretFile)
		}
		return []byte(secret), nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read jwt secret file: %w", err)
	}

	raw := make([]byte, secretBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate jwt secret: %w", err)
	}
	secret := base64.RawURLEncoding.EncodeToString(raw)

	if err := os.WriteFile(cfg.JWTSecretFile, []byte(secret+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("persist jwt secret: %w", err)
	}

	return []byte(secret), nil
}
