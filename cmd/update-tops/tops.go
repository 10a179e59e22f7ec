package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"hall-of-fame/internal/spotify"
)

// playlist maps a chart playlist to the document it is saved as.
type playlist struct {
	ID       string
	Document string
}

func defaultPlaylists() []playlist {
	return []playlist{
		{ID: spotify.PlaylistGlobal, Document: spotify.GlobalDocument},
		{ID: spotify.PlaylistRegional, Document: spotify.RegionalDocument},
	}
}

type updater struct {
	tokenURL  string
	apiBase   string
	clientID  string
	secret    string
	outDir    string
	playlists []playlist
}

func (u updater) run(ctx context.Context) error {
	httpClient := &http.Client{Timeout: 15 * time.Second}
	token, err := spotify.ClientCredentials(ctx, httpClient, u.tokenURL, u.clientID, u.secret)
	if err != nil {
		return err
	}
	client := spotify.NewClient(token)
	client.BaseURL = u.apiBase
	client.HTTP = httpClient

	if err := os.MkdirAll(u.outDir, 0o755); err != nil {
		return err
	}
	for _, p := range u.playlists {
		tracks, err := client.PlaylistTracks(ctx, p.ID)
		if err != nil {
			return err
		}
		// Track only carries the fields the hall reads, so markets and
		// album artists are dropped on the way through.
		raw, err := json.Marshal(tracks)
		if err != nil {
			return err
		}
		path := filepath.Join(u.outDir, p.Document)
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return err
		}
		log.Printf("[UpdateTops] wrote %d tracks to %s", len(tracks), path)
	}
	return nil
}
