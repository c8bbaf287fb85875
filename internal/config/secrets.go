package config

import (
	"fmt"
	"os"
	"strings"
)

// readSecret reads a secret from the standard Docker Secrets path.
// When the file is absent it falls back to the upper-cased env var of
// the same name, so local runs work without mounted secrets.
func readSecret(secretName string) (string, error) {
	filePath := fmt.Sprintf("/run/secrets/%s", secretName)
	secretBytes, err := os.ReadFile(filePath)
	if err == nil {
		secret := strings.TrimSpace(string(secretBytes))
		if secret == "" {
			return "", fmt.Errorf("secret file %s is empty", filePath)
		}
		return secret, nil
	}
	if env := strings.TrimSpace(os.Getenv(strings.ToUpper(secretName))); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("failed to read secret %s: %w", secretName, err)
}
