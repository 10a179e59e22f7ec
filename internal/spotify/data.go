package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"
)

// Static fallback documents, written by update-tops.
const (
	GlobalDocument   = "global.json"
	RegionalDocument = "regional.json"
)

// Documents fetches raw documents by reference.
type Documents interface {
	Get(ctx context.Context, ref string) ([]byte, error)
}

// Data is what the three halls display. Personal is nil when there is no
// usable token.
type Data struct {
	Global   []Track
	Regional []Track
	Personal []Track
}

// HasPersonal reports whether the personal hall gets tracks rather than the
// login affordance.
func (d *Data) HasPersonal() bool { return d.Personal != nil }

// Load fetches all three lists with client, or the static documents when
// client is nil. If the live fetch fails (including a rejected token) it
// falls back to the static documents as well.
func Load(ctx context.Context, client *Client, docs Documents) (*Data, error) {
	if client != nil && client.Token != "" {
		data, err := loadLive(ctx, client)
		if err == nil {
			return data, nil
		}
		if errors.Is(err, ErrUnauthorized) {
			log.Printf("[Spotify] token rejected, using static tops")
		} else {
			log.Printf("[Spotify] live fetch failed, using static tops: %v", err)
		}
	}
	return loadStatic(ctx, docs)
}

func loadLive(ctx context.Context, client *Client) (*Data, error) {
	var data Data
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Global, err = client.PlaylistTracks(gctx, PlaylistGlobal)
		return err
	})
	g.Go(func() (err error) {
		data.Regional, err = client.PlaylistTracks(gctx, PlaylistRegional)
		return err
	})
	g.Go(func() error {
		tracks, err := client.TopTracks(gctx)
		if err != nil {
			return err
		}
		if tracks == nil {
			tracks = []Track{}
		}
		data.Personal = tracks
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

func loadStatic(ctx context.Context, docs Documents) (*Data, error) {
	var data Data
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Global, err = readTracks(gctx, docs, GlobalDocument)
		return err
	})
	g.Go(func() (err error) {
		data.Regional, err = readTracks(gctx, docs, RegionalDocument)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

func readTracks(ctx context.Context, docs Documents, ref string) ([]Track, error) {
	raw, err := docs.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	var tracks []Track
	if err := json.Unmarshal(raw, &tracks); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return tracks, nil
}
