// Package auth provides monday.com credential selection and API token management.
// It implements a simple interface with multiple providers following the
// "deep modules" principle - simple interface, complex implementation hidden.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// Mode is the caller-declared authentication mode.
type Mode string

const (
	// ModeAccessToken signs requests with a static personal API token.
	ModeAccessToken Mode = "accessToken"
	// ModeOAuth2 signs requests with an OAuth2 access token.
	ModeOAuth2 Mode = "oAuth2"
)

// Credential profile names.
const (
	CredentialAccessToken = "mondayProApi"
	CredentialOAuth2      = "mondayProOAuth2Api"
)

// TokenEnvVar is the environment variable consulted by EnvProvider.
const TokenEnvVar = "MONDAY_API_TOKEN"

const (
	keyringService = "mondaypro"
	keyringUser    = "api-token"
)

var (
	// ErrNoToken indicates that no provider could supply a token.
	ErrNoToken = errors.New("no monday.com API token available")
)

// CredentialFor maps an authentication mode to the credential profile used to sign requests.
// Anything other than ModeOAuth2, including the empty mode, selects the static token profile.
func CredentialFor(mode Mode) string {
	if mode == ModeOAuth2 {
		return CredentialOAuth2
	}
	return CredentialAccessToken
}

// ParseMode converts a user supplied string into a Mode.
// Unknown values fall back to ModeAccessToken, matching CredentialFor.
func ParseMode(s string) Mode {
	if Mode(s) == ModeOAuth2 {
		return ModeOAuth2
	}
	return ModeAccessToken
}

// TokenProvider defines the interface for obtaining a monday.com API token.
// Implementations may use different sources (OS keyring, environment variables, etc).
type TokenProvider interface {
	GetToken() (string, error)
}

// KeyringProvider obtains tokens from the operating system keyring.
// Tokens are stored there by `mondaypro auth login`.
type KeyringProvider struct{}

// GetToken reads the token saved under the mondaypro keyring service.
func (k *KeyringProvider) GetToken() (string, error) {
	token, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", errors.New("no token stored in keyring")
		}
		return "", fmt.Errorf("keyring lookup failed: %w", err)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("keyring returned empty token")
	}
	return token, nil
}

// SaveToken stores a token in the OS keyring, replacing any previous one.
func SaveToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("refusing to store empty token")
	}
	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// DeleteToken removes the stored token. Deleting a missing token is not an error.
func DeleteToken() error {
	if err := keyring.Delete(keyringService, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

// EnvProvider obtains tokens from the MONDAY_API_TOKEN environment variable.
type EnvProvider struct{}

// GetToken reads the MONDAY_API_TOKEN environment variable.
// Returns an error if the variable is not set or is empty.
func (e *EnvProvider) GetToken() (string, error) {
	token := os.Getenv(TokenEnvVar)
	if token == "" {
		return "", fmt.Errorf("%s environment variable not set or empty", TokenEnvVar)
	}
	return token, nil
}

// StaticProvider returns a fixed token. Used when the token comes from configuration.
type StaticProvider struct {
	Token string
}

// GetToken returns the configured token.
func (s *StaticProvider) GetToken() (string, error) {
	if s.Token == "" {
		return "", errors.New("static token is empty")
	}
	return s.Token, nil
}

// ChainProvider tries each provider in order and returns the first token found.
type ChainProvider []TokenProvider

// GetToken returns the first successful token, or ErrNoToken with every provider's reason.
func (c ChainProvider) GetToken() (string, error) {
	reasons := make([]string, 0, len(c))
	for _, p := range c {
		token, err := p.GetToken()
		if err == nil {
			return token, nil
		}
		reasons = append(reasons, err.Error())
	}
	return "", fmt.Errorf("%w: %s", ErrNoToken, strings.Join(reasons, "; "))
}

// GetToken attempts to obtain a monday.com token using the following strategy:
// 1. Try the OS keyring first (set by `mondaypro auth login`)
// 2. Fall back to the MONDAY_API_TOKEN environment variable
// 3. Return a clear, actionable error if both fail
func GetToken() (string, error) {
	token, err := ChainProvider{&KeyringProvider{}, &EnvProvider{}}.GetToken()
	if err != nil {
		return "", fmt.Errorf(
			"failed to obtain monday.com token: %w.\n"+
				"Please either:\n"+
				"  1. Run 'mondaypro auth login' to store a token in the OS keyring, or\n"+
				"  2. Set the %s environment variable with a personal API token",
			err, TokenEnvVar,
		)
	}
	return token, nil
}
