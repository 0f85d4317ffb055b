package google

import (
	"context"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

// Scopes are the OAuth scopes the refresh token must carry.
var Scopes = []string{gmail.GmailReadonlyScope, drive.DriveFileScope}

// OAuthConfig returns the OAuth client described by settings.
func OAuthConfig(settings domain.GmailSettings) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     settings.ClientID,
		ClientSecret: settings.ClientSecret,
		Endpoint:     googleoauth.Endpoint,
		Scopes:       Scopes,
	}
}

// NewTokenSource exchanges the stored refresh token for access tokens as
// needed. Returns domain.ErrSourceUnavailable if credentials are missing.
func NewTokenSource(ctx context.Context, settings domain.GmailSettings) (oauth2.TokenSource, error) {
	if !settings.IsConfigured() {
		return nil, domain.ErrSourceUnavailable
	}
	token := &oauth2.Token{RefreshToken: settings.RefreshToken, TokenType: "Bearer"}
	return oauth2.ReuseTokenSource(nil, OAuthConfig(settings).TokenSource(ctx, token)), nil
}
