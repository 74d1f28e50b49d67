package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

var requiredScopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

func msEndpoint(tenantID, path string) string {
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

// Auth locates the token cache and the Azure application to authenticate as.
type Auth struct {
	// Home is the daylog home directory; tokens live in Home/auth.
	Home     string
	TenantID string
	ClientID string
}

func (a Auth) tokenFilePath() string {
	return filepath.Join(a.Home, "auth", "msgraph_tokens.json")
}

// oauth2Config returns the oauth2.Config for Microsoft Graph.
func (a Auth) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID: a.ClientID,
		Scopes:   requiredScopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: msEndpoint(a.TenantID, "devicecode"),
			TokenURL:      msEndpoint(a.TenantID, "token"),
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// loadToken loads a previously saved token. A missing file yields nil.
func (a Auth) loadToken() (*oauth2.Token, error) {
	path := a.tokenFilePath()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", path, err)
	}
	return &tok, nil
}

// saveToken persists a token with a temp file and rename.
func (a Auth) saveToken(tok *oauth2.Token) error {
	path := a.tokenFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// Token returns a usable token: the cached one, a refreshed one, or a new
// one obtained through the device code flow. The prompt for the device code
// is written to stdout.
func (a Auth) Token(ctx context.Context) (*oauth2.Token, error) {
	cfg := a.oauth2Config()

	tok, err := a.loadToken()
	if err != nil {
		log.Warn().Err(err).Msg("ignoring cached token")
		tok = nil
	}
	if tok != nil && tok.Valid() {
		return tok, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := cfg.TokenSource(ctx, tok).Token()
		if err == nil {
			if err := a.saveToken(refreshed); err != nil {
				log.Warn().Err(err).Msg("could not save refreshed token")
			}
			return refreshed, nil
		}
		log.Warn().Err(err).Msg("token refresh failed, re-authenticating")
	}

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("device auth request failed: %w", err)
	}

	fmt.Println()
	fmt.Println("To sign in, use a web browser to open the page:")
	fmt.Printf("  %s\n", resp.VerificationURI)
	fmt.Printf("Enter the code: %s\n", resp.UserCode)
	fmt.Println()

	newTok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("device authentication failed: %w", err)
	}
	if err := a.saveToken(newTok); err != nil {
		log.Warn().Err(err).Msg("could not save token")
	}
	return newTok, nil
}

// savingTokenSource wraps a TokenSource and persists refreshed tokens.
type savingTokenSource struct {
	auth Auth
	ts   oauth2.TokenSource
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	// Best-effort save; ignore errors.
	_ = s.auth.saveToken(tok)
	return tok, nil
}
