package config

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups this tool's secrets in the OS keychain.
const KeyringService = "job-aggregator"

// Keychain accounts for the credentials the collaborators need.
const (
	AccountGitHubToken  = "github-token"
	AccountJobSpyAPIKey = "jobspy-api-key"
)

// ErrNoCredential is returned when neither the environment nor the keychain
// holds a value.
var ErrNoCredential = errors.New("credential not found (set it in the environment or keychain)")

// LookupToken returns envValue when set, otherwise the keychain entry for account.
func LookupToken(envValue, account string) (string, error) {
	if v := strings.TrimSpace(envValue); v != "" {
		return v, nil
	}
	v, err := keyring.Get(KeyringService, account)
	if err == nil && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), nil
	}
	return "", ErrNoCredential
}

// StoreToken saves a credential in the keychain.
func StoreToken(account, value string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("credential is empty")
	}
	return keyring.Set(KeyringService, account, value)
}

// DeleteToken removes a credential from the keychain.
func DeleteToken(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}
