package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const keyringUser = "api-token"

// StoreToken saves the Bear API token in the OS keychain.
func StoreToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if err := keyring.Set(AppName, keyringUser, token); err != nil {
		return fmt.Errorf("failed to store token in keychain: %w", err)
	}
	return nil
}

// DeleteToken removes the stored token. A missing entry is not an error.
func DeleteToken() error {
	err := keyring.Delete(AppName, keyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from keychain: %w", err)
	}
	return nil
}

// LookupToken returns the keychain token, or ErrMissingToken when none is
// stored.
func LookupToken() (string, error) {
	token, err := keyring.Get(AppName, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrMissingToken
		}
		return "", fmt.Errorf("failed to read token from keychain: %w", err)
	}
	if strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}
