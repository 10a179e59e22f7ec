package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	ClientID          = "78d27efbc5e84665b852ca8dd63ea33f"
	AuthorizeEndpoint = "https://accounts.spotify.com/authorize"
	TokenEndpoint     = "https://accounts.spotify.com/api/token"
	ScopeUserTopRead  = "user-top-read"
)

// AuthorizeURL builds the implicit-grant login URL.
func AuthorizeURL(clientID, redirectURI string, scopes ...string) string {
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("response_type", "token")
	q.Set("redirect_uri", redirectURI)
	q.Set("scope", strings.Join(scopes, " "))
	return AuthorizeEndpoint + "?" + q.Encode()
}

// ParseFragment extracts the access token from a redirect fragment such as
// "#access_token=...&token_type=Bearer&expires_in=3600". ok is false unless
// a token is present and its type is Bearer.
func ParseFragment(fragment string) (token string, ok bool) {
	values, err := url.ParseQuery(strings.TrimPrefix(fragment, "#"))
	if err != nil {
		return "", false
	}
	token = values.Get("access_token")
	if token == "" || values.Get("token_type") != "Bearer" {
		return "", false
	}
	return token, true
}

// ClientCredentials exchanges an app's id and secret for an access token.
// Such tokens can read public playlists but not user data.
func ClientCredentials(ctx context.Context, httpClient *http.Client, tokenURL, clientID, secret string) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(clientID, secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		AccessToken      string `json:"access_token"`
		TokenType        string `json:"token_type"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.Error != "" {
		return "", fmt.Errorf("token request: %s: %s", payload.Error, payload.ErrorDescription)
	}
	if resp.StatusCode != http.StatusOK || payload.AccessToken == "" {
		return "", &APIError{Status: resp.StatusCode, Message: "no access token in response"}
	}
	return payload.AccessToken, nil
}
