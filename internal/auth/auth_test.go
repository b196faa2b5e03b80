package auth

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

type failingProvider struct{ msg string }

func (f failingProvider) GetToken() (string, error) { return "", errors.New(f.msg) }

func TestCredentialFor(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		want string
	}{
		{"oauth2", ModeOAuth2, CredentialOAuth2},
		{"access token", ModeAccessToken, CredentialAccessToken},
		{"empty", "", CredentialAccessToken},
		{"unknown", Mode("basic"), CredentialAccessToken},
		{"case sensitive", Mode("oauth2"), CredentialAccessToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CredentialFor(tt.mode))
		})
	}
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeOAuth2, ParseMode("oAuth2"))
	assert.Equal(t, ModeAccessToken, ParseMode("accessToken"))
	assert.Equal(t, ModeAccessToken, ParseMode(""))
}

func TestEnvProvider_GetToken_Success(t *testing.T) {
	t.Setenv(TokenEnvVar, "monday_test_token_123")

	provider := &EnvProvider{}
	token, err := provider.GetToken()

	require.NoError(t, err)
	assert.Equal(t, "monday_test_token_123", token)
}

func TestEnvProvider_GetToken_Missing(t *testing.T) {
	os.Unsetenv(TokenEnvVar)

	provider := &EnvProvider{}
	token, err := provider.GetToken()

	assert.Error(t, err)
	assert.Empty(t, token)
	assert.Contains(t, err.Error(), TokenEnvVar)
}

func TestKeyringProvider_RoundTrip(t *testing.T) {
	keyring.MockInit()

	provider := &KeyringProvider{}
	_, err := provider.GetToken()
	require.Error(t, err)

	require.NoError(t, SaveToken("  stored-token  "))

	token, err := provider.GetToken()
	require.NoError(t, err)
	assert.Equal(t, "stored-token", token)

	require.NoError(t, DeleteToken())
	_, err = provider.GetToken()
	assert.Error(t, err)

	// Deleting twice is fine
	assert.NoError(t, DeleteToken())
}

func TestSaveToken_Empty(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, SaveToken("   "))
}

func TestChainProvider(t *testing.T) {
	t.Run("first success wins", func(t *testing.T) {
		chain := ChainProvider{failingProvider{"nope"}, &StaticProvider{Token: "abc"}, &StaticProvider{Token: "def"}}
		token, err := chain.GetToken()
		require.NoError(t, err)
		assert.Equal(t, "abc", token)
	})

	t.Run("all fail", func(t *testing.T) {
		chain := ChainProvider{failingProvider{"first"}, failingProvider{"second"}}
		_, err := chain.GetToken()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoToken)
		assert.Contains(t, err.Error(), "first")
		assert.Contains(t, err.Error(), "second")
	})
}

func TestGetToken_FallsBackToEnv(t *testing.T) {
	keyring.MockInit()
	t.Setenv(TokenEnvVar, "from-env")

	token, err := GetToken()
	require.NoError(t, err)
	assert.Equal(t, "from-env", token)
}

func TestGetToken_ActionableError(t *testing.T) {
	keyring.MockInit()
	os.Unsetenv(TokenEnvVar)

	_, err := GetToken()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth login")
	assert.Contains(t, err.Error(), TokenEnvVar)
}

func TestOAuth2Config_TokenSource(t *testing.T) {
	t.Run("requires a token", func(t *testing.T) {
		_, err := OAuth2Config{ClientID: "id"}.TokenSource(context.Background())
		assert.Error(t, err)
	})

	t.Run("returns seeded access token", func(t *testing.T) {
		ts, err := OAuth2Config{ClientID: "id", AccessToken: "tok"}.TokenSource(context.Background())
		require.NoError(t, err)

		tok, err := ts.Token()
		require.NoError(t, err)
		assert.Equal(t, "tok", tok.AccessToken)
	})
}
