package transport

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/robby/mondaypro/internal/auth"
	"golang.org/x/oauth2"
)

// Credential signs an outgoing request.
type Credential interface {
	Authenticate(req *http.Request) error
}

// BearerCredential signs requests with a static API token.
// monday.com expects the raw token, but also accepts the Bearer scheme.
type BearerCredential struct {
	Tokens auth.TokenProvider
}

// Authenticate sets the Authorization header from the token provider.
func (b BearerCredential) Authenticate(req *http.Request) error {
	if b.Tokens == nil {
		return errors.New("bearer credential has no token provider")
	}
	token, err := b.Tokens.GetToken()
	if err != nil {
		return errors.Wrap(err, "failed to obtain API token")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// OAuth2Credential signs requests with tokens from an OAuth2 token source.
type OAuth2Credential struct {
	Source oauth2.TokenSource
}

// Authenticate fetches a (possibly refreshed) token and sets it on the request.
func (c OAuth2Credential) Authenticate(req *http.Request) error {
	if c.Source == nil {
		return errors.New("oauth2 credential has no token source")
	}
	tok, err := c.Source.Token()
	if err != nil {
		return errors.Wrap(err, "failed to obtain OAuth2 token")
	}
	tok.SetAuthHeader(req)
	return nil
}

// Credentials maps credential profile names to their signers.
type Credentials map[string]Credential

// NewCredentials builds the two monday.com credential profiles.
// Either argument may be nil when that profile is not configured.
func NewCredentials(tokens auth.TokenProvider, oauth oauth2.TokenSource) Credentials {
	creds := Credentials{}
	if tokens != nil {
		creds[auth.CredentialAccessToken] = BearerCredential{Tokens: tokens}
	}
	if oauth != nil {
		creds[auth.CredentialOAuth2] = OAuth2Credential{Source: oauth2.ReuseTokenSource(nil, oauth)}
	}
	return creds
}
