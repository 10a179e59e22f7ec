package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

func TestParseFragment(t *testing.T) {
	tests := []struct {
		fragment string
		token    string
		ok       bool
	}{
		{"#access_token=abc&token_type=Bearer&expires_in=3600", "abc", true},
		{"access_token=abc&token_type=Bearer", "abc", true},
		{"#access_token=abc", "", false},
		{"#access_token=abc&token_type=Basic", "", false},
		{"#token_type=Bearer", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		token, ok := ParseFragment(tt.fragment)
		if token != tt.token || ok != tt.ok {
			t.Errorf("ParseFragment(%q) = %q, %v; want %q, %v", tt.fragment, token, ok, tt.token, tt.ok)
		}
	}
}

func TestAuthorizeURL(t *testing.T) {
	raw := AuthorizeURL(ClientID, RedirectURI, ScopeUserTopRead)
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	q := u.Query()
	if q.Get("response_type") != "token" || q.Get("scope") != "user-top-read" {
		t.Errorf("unexpected query %v", q)
	}
	if q.Get("redirect_uri") != "http://127.0.0.1:8888/callback" || q.Get("client_id") != ClientID {
		t.Errorf("unexpected query %v", q)
	}
}

const playlistJSON = `{"items":[
 {"track":{"id":"1","name":"One","preview_url":"http://p/1.mp3","artists":[{"name":"A"}],
  "album":{"name":"Al","images":[{"url":"http://c/1.jpg","width":640,"height":640}]},
  "available_markets":["MX"]}},
 {"track":null},
 {"track":{"id":"2","name":"Two","preview_url":null,"artists":[],"album":{"images":[]}}}
]}`

func newAPI(t *testing.T, routes map[string]string) (*Client, *[]*http.Request) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []*http.Request
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r)
		mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"status":404,"message":"Not found."}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	c := NewClient("good")
	c.BaseURL = srv.URL + "/v1/"
	return c, &seen
}

func TestPlaylistTracksUnwrapsItems(t *testing.T) {
	c, seen := newAPI(t, map[string]string{"/v1/playlists/" + PlaylistGlobal + "/tracks": playlistJSON})

	tracks, err := c.PlaylistTracks(context.Background(), PlaylistGlobal)
	if err != nil {
		t.Fatalf("PlaylistTracks: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected null items to be dropped, got %d tracks", len(tracks))
	}
	if tracks[0].CoverURL() != "http://c/1.jpg" || tracks[0].ArtistName() != "A" {
		t.Errorf("unexpected first track %+v", tracks[0])
	}
	if tracks[1].PreviewURL != "" || tracks[1].CoverURL() != "" || tracks[1].ArtistName() != "" {
		t.Errorf("empty fields should decode to zero values: %+v", tracks[1])
	}
	if got := (*seen)[0].URL.Query().Get("limit"); got != "10" {
		t.Errorf("limit = %q", got)
	}
}

func TestTopTracksQuery(t *testing.T) {
	c, seen := newAPI(t, map[string]string{"/v1/me/top/tracks": `{"items":[{"id":"x","name":"X"}]}`})

	tracks, err := c.TopTracks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 1 || tracks[0].Name != "X" {
		t.Errorf("unexpected tracks %+v", tracks)
	}
	q := (*seen)[0].URL.Query()
	if q.Get("time_range") != "long_term" || q.Get("limit") != "10" {
		t.Errorf("unexpected query %v", q)
	}
}

func TestClientErrors(t *testing.T) {
	c, _ := newAPI(t, nil)

	_, err := c.PlaylistTracks(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 404 || apiErr.Message != "Not found." {
		t.Errorf("expected a 404 APIError, got %v", err)
	}

	c.Token = "expired"
	if _, err := c.TopTracks(context.Background()); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

type memDocs map[string]string

func (m memDocs) Get(ctx context.Context, ref string) ([]byte, error) {
	s, ok := m[ref]
	if !ok {
		return nil, errors.New("no such document: " + ref)
	}
	return []byte(s), nil
}

var staticDocs = memDocs{
	GlobalDocument:   `[{"id":"g","name":"Global"}]`,
	RegionalDocument: `[{"id":"r","name":"Regional"}]`,
}

func TestLoadWithoutTokenUsesStaticDocuments(t *testing.T) {
	data, err := Load(context.Background(), nil, staticDocs)
	if err != nil {
		t.Fatal(err)
	}
	if data.HasPersonal() {
		t.Error("no token should mean no personal tracks")
	}
	if data.Global[0].Name != "Global" || data.Regional[0].Name != "Regional" {
		t.Errorf("unexpected data %+v", data)
	}
}

func TestLoadFallsBackOnRejectedToken(t *testing.T) {
	c, _ := newAPI(t, nil)
	c.Token = "expired"

	data, err := Load(context.Background(), c, staticDocs)
	if err != nil {
		t.Fatal(err)
	}
	if data.HasPersonal() || data.Global[0].Name != "Global" {
		t.Errorf("expected the static fallback, got %+v", data)
	}
}

func TestLoadLive(t *testing.T) {
	c, _ := newAPI(t, map[string]string{
		"/v1/playlists/" + PlaylistGlobal + "/tracks":   playlistJSON,
		"/v1/playlists/" + PlaylistRegional + "/tracks": `{"items":[]}`,
		"/v1/me/top/tracks": `{"items":[]}`,
	})

	data, err := Load(context.Background(), c, staticDocs)
	if err != nil {
		t.Fatal(err)
	}
	if !data.HasPersonal() {
		t.Error("an empty top list should still count as personal data")
	}
	if len(data.Global) != 2 || len(data.Regional) != 0 {
		t.Errorf("unexpected data %+v", data)
	}
}

func TestClientCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if r.Method != http.MethodPost || !ok || user != "id" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		r.ParseForm()
		if r.PostForm.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if pass != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_client","error_description":"Invalid client secret"}`))
			return
		}
		w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	token, err := ClientCredentials(context.Background(), srv.Client(), srv.URL, "id", "secret")
	if err != nil || token != "tok" {
		t.Fatalf("ClientCredentials = %q, %v", token, err)
	}
	if _, err := ClientCredentials(context.Background(), srv.Client(), srv.URL, "id", "wrong"); err == nil ||
		!strings.Contains(err.Error(), "invalid_client") {
		t.Errorf("expected invalid_client error, got %v", err)
	}
}

func TestLoginServerDeliversTokenOnce(t *testing.T) {
	s := NewLoginServer(LoginAddr)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/callback")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("callback page: %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	resp, _ = http.Get(srv.URL + "/token?access_token=abc")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("token without type should be rejected, got %d", resp.StatusCode)
	}

	for _, tok := range []string{"first", "second"} {
		resp, err = http.Get(srv.URL + "/token?access_token=" + tok + "&token_type=Bearer")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("token status = %d", resp.StatusCode)
		}
	}

	select {
	case tok := <-s.Token():
		if tok != "first" {
			t.Errorf("token = %q", tok)
		}
	default:
		t.Fatal("no token delivered")
	}
	select {
	case tok := <-s.Token():
		t.Errorf("second token %q should not be delivered", tok)
	default:
	}
}
