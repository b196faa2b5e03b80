package auth

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

// Endpoint holds the monday.com OAuth2 endpoints.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://auth.monday.com/oauth2/authorize",
	TokenURL: "https://auth.monday.com/oauth2/token",
}

// OAuth2Config holds the app credentials and the tokens granted to it.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	AccessToken  string
	RefreshToken string
	Scopes       []string
}

// TokenSource returns a reusable token source seeded with the configured tokens.
// monday.com access tokens do not expire, so a missing refresh token is fine.
func (c OAuth2Config) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if c.AccessToken == "" && c.RefreshToken == "" {
		return nil, errors.New("oauth2: access token or refresh token is required")
	}

	cfg := &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     Endpoint,
		Scopes:       c.Scopes,
	}

	return cfg.TokenSource(ctx, &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
	}), nil
}
