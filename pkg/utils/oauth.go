package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/plazacoche/charger-rota/internal/config"
)

// OAuth scopes for Google APIs
const (
	ScopeSheets    = "https://www.googleapis.com/auth/spreadsheets"
	ScopeGmailSend = "https://www.googleapis.com/auth/gmail.send"
)

var (
	tokenSources   = map[string]oauth2.TokenSource{}
	tokenSourcesMu sync.Mutex
)

// requiredScopes returns all scopes required by the application
func requiredScopes() []string {
	return []string{
		ScopeSheets,
		ScopeGmailSend,
	}
}

// GoogleTokenSource returns a token source for the configured credentials file with every scope
// the application needs, so Sheets and Gmail clients share one token.
// Service account keys act as ImpersonateUser when it is set (domain-wide delegation);
// authorized user files carry their own refresh token.
func GoogleTokenSource(ctx context.Context, googleCfg *config.GoogleConfig) (oauth2.TokenSource, error) {
	if googleCfg.CredentialsFile == "" {
		return nil, fmt.Errorf("no google credentials file configured")
	}

	key := googleCfg.CredentialsFile + "|" + googleCfg.ImpersonateUser

	tokenSourcesMu.Lock()
	defer tokenSourcesMu.Unlock()

	if ts, ok := tokenSources[key]; ok {
		return ts, nil
	}

	data, err := os.ReadFile(googleCfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	ts, err := tokenSourceFromJSON(ctx, data, googleCfg.ImpersonateUser)
	if err != nil {
		return nil, err
	}

	ts = oauth2.ReuseTokenSource(nil, ts)
	tokenSources[key] = ts
	return ts, nil
}

func tokenSourceFromJSON(ctx context.Context, data []byte, impersonate string) (oauth2.TokenSource, error) {
	var header struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	if header.Type == "service_account" && impersonate != "" {
		jwtConfig, err := google.JWTConfigFromJSON(data, requiredScopes()...)
		if err != nil {
			return nil, fmt.Errorf("failed to create service account config: %w", err)
		}
		jwtConfig.Subject = impersonate
		return jwtConfig.TokenSource(ctx), nil
	}

	creds, err := google.CredentialsFromJSON(ctx, data, requiredScopes()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create google credentials: %w", err)
	}
	return creds.TokenSource, nil
}

// ClearTokenSources drops cached token sources
func ClearTokenSources() {
	tokenSourcesMu.Lock()
	defer tokenSourcesMu.Unlock()
	tokenSources = map[string]oauth2.TokenSource{}
}
