package sheetstore

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"usagelog/internal/config"
)

// newService authenticates against the Sheets API. A service-account key
// file is preferred; the oauth refresh-token triple is the fallback for
// environments where a key file cannot be deployed.
func newService(ctx context.Context, cfg config.Config) (*sheets.Service, error) {
	if data, err := os.ReadFile(cfg.CredentialsFile); err == nil {
		jwtCfg, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("parse service account key %s: %w", cfg.CredentialsFile, err)
		}
		return sheets.NewService(ctx, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
	}

	if err := cfg.Require("SHEETS_OAUTH_CLIENT_ID", cfg.OAuthClientID); err != nil {
		return nil, err
	}
	if err := cfg.Require("SHEETS_OAUTH_CLIENT_SECRET", cfg.OAuthClientSecret); err != nil {
		return nil, err
	}
	if err := cfg.Require("SHEETS_OAUTH_REFRESH_TOKEN", cfg.OAuthRefreshToken); err != nil {
		return nil, err
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.OAuthRedirectURI,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
	tokenSource := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.OAuthRefreshToken})
	return sheets.NewService(ctx, option.WithTokenSource(tokenSource))
}
