package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const playlistBody = `{"items":[{"track":{
	"id":"t1","name":"Song","preview_url":"https://p.scdn.co/1","duration_ms":1000,
	"popularity":90,"available_markets":["MX","US"],
	"artists":[{"name":"Artist"}],
	"album":{"name":"Album","artists":[{"name":"Artist"}],"available_markets":["MX"],
		"images":[{"url":"https://i.scdn.co/1","width":640,"height":640}]}}},
	{"track":null}]}`

func newSpotify(t *testing.T, secret string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		if _, got, ok := r.BasicAuth(); !ok || got != secret {
			fmt.Fprint(w, `{"error":"invalid_client","error_description":"Invalid client secret"}`)
			return
		}
		fmt.Fprint(w, `{"access_token":"app-token","token_type":"Bearer"}`)
	})
	mux.HandleFunc("/v1/playlists/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer app-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, playlistBody)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestUpdaterWritesDocuments(t *testing.T) {
	srv := newSpotify(t, "s3cret")
	out := filepath.Join(t.TempDir(), "public")
	u := updater{
		tokenURL:  srv.URL + "/api/token",
		apiBase:   srv.URL + "/v1/",
		clientID:  "id",
		secret:    "s3cret",
		outDir:    out,
		playlists: defaultPlaylists(),
	}
	if err := u.run(t.Context()); err != nil {
		t.Fatal(err)
	}

	for _, p := range u.playlists {
		raw, err := os.ReadFile(filepath.Join(out, p.Document))
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(string(raw), "available_markets") || strings.Contains(string(raw), "null") {
			t.Errorf("%s still carries dropped fields: %s", p.Document, raw)
		}
		var tracks []map[string]any
		if err := json.Unmarshal(raw, &tracks); err != nil {
			t.Fatal(err)
		}
		if len(tracks) != 1 || tracks[0]["preview_url"] != "https://p.scdn.co/1" {
			t.Errorf("%s = %s", p.Document, raw)
		}
		album := tracks[0]["album"].(map[string]any)
		if _, ok := album["artists"]; ok {
			t.Errorf("album artists should be dropped: %v", album)
		}
	}
}

func TestUpdaterRejectsBadSecret(t *testing.T) {
	srv := newSpotify(t, "s3cret")
	out := t.TempDir()
	u := updater{
		tokenURL:  srv.URL + "/api/token",
		apiBase:   srv.URL + "/v1/",
		clientID:  "id",
		secret:    "wrong",
		outDir:    out,
		playlists: defaultPlaylists(),
	}
	err := u.run(t.Context())
	if err == nil || !strings.Contains(err.Error(), "invalid_client") {
		t.Fatalf("err = %v", err)
	}
	if entries, _ := os.ReadDir(out); len(entries) != 0 {
		t.Errorf("nothing should be written, found %d files", len(entries))
	}
}
