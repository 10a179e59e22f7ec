package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	APIBase = "https://api.spotify.com/v1/"

	PlaylistGlobal   = "37i9dQZEVXbMDoHDwVN2tF"
	PlaylistRegional = "37i9dQZEVXbO3qyFxbkOE1"

	pathTopTracks = "me/top/tracks?limit=10&time_range=long_term"
)

// ErrUnauthorized reports a missing, expired or rejected access token.
var ErrUnauthorized = errors.New("spotify: unauthorized")

// APIError is a non-2xx response other than 401.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify: HTTP %d: %s", e.Status, e.Message)
}

// Client issues bearer-token requests against BaseURL.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		BaseURL: APIBase,
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// TopTracks returns the user's ten most played tracks of all time.
func (c *Client) TopTracks(ctx context.Context) ([]Track, error) {
	var page pagingTracks
	if err := c.get(ctx, pathTopTracks, &page); err != nil {
		return nil, fmt.Errorf("top tracks: %w", err)
	}
	return page.Items, nil
}

// PlaylistTracks returns the first ten tracks of a playlist.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string) ([]Track, error) {
	var page pagingPlaylist
	if err := c.get(ctx, "playlists/"+playlistID+"/tracks?limit=10", &page); err != nil {
		return nil, fmt.Errorf("playlist %s: %w", playlistID, err)
	}
	tracks := make([]Track, 0, len(page.Items))
	for _, it := range page.Items {
		// Removed or local items come back with a null track.
		if it.Track != nil {
			tracks = append(tracks, *it.Track)
		}
	}
	return tracks, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	url := strings.TrimSuffix(c.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &payload) == nil && payload.Error.Message != "" {
		msg = payload.Error.Message
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
