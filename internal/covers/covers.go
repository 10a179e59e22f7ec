// Package covers caches album cover materials by image URL.
package covers

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"hall-of-fame/core"
	"hall-of-fame/scene"
)

// TextureSource loads a decoded texture by reference.
type TextureSource interface {
	Texture(ctx context.Context, ref string) (*scene.Texture, error)
}

// Cache loads each cover URL at most once for its lifetime. Loads already
// in flight are shared by every caller asking for the same URL. A failed
// load is not cached, so a later call retries it.
type Cache struct {
	src TextureSource

	mu        sync.Mutex
	materials map[string]*scene.Material

	flights     singleflight.Group
	placeholder *scene.Material
}

func NewCache(src TextureSource) *Cache {
	return &Cache{
		src:         src,
		materials:   make(map[string]*scene.Material),
		placeholder: scene.NewMaterial("cover-placeholder", core.ColorHex(0x282828)),
	}
}

// Placeholder is the material used in place of a cover that failed to load.
func (c *Cache) Placeholder() *scene.Material { return c.placeholder }

// FetchMaterials returns one material per URL, in input order. Missing
// covers are loaded concurrently. If any load fails, the first error in
// input order is returned and that entry holds the placeholder. An empty
// URL, an album without images, gets the placeholder and no error.
func (c *Cache) FetchMaterials(ctx context.Context, urls []string) ([]*scene.Material, error) {
	out := make([]*scene.Material, len(urls))
	errs := make([]error, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		if url == "" {
			out[i] = c.placeholder
			continue
		}
		if mat, ok := c.lookup(url); ok {
			out[i] = mat
			continue
		}
		g.Go(func() error {
			mat, err := c.load(gctx, url)
			if err != nil {
				errs[i] = err
				out[i] = c.placeholder
				return nil
			}
			out[i] = mat
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			return out, fmt.Errorf("cover %s: %w", urls[i], err)
		}
	}
	return out, nil
}

func (c *Cache) lookup(url string) (*scene.Material, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	mat, ok := c.materials[url]
	return mat, ok
}

func (c *Cache) load(ctx context.Context, url string) (*scene.Material, error) {
	v, err, _ := c.flights.Do(url, func() (interface{}, error) {
		// A flight that finished between lookup and Do already stored it.
		if mat, ok := c.lookup(url); ok {
			return mat, nil
		}
		tex, err := c.src.Texture(ctx, url)
		if err != nil {
			log.Printf("[Covers] %s: %v", url, err)
			return nil, err
		}
		mat := scene.NewTexturedMaterial("cover", tex)
		c.mu.Lock()
		c.materials[url] = mat
		c.mu.Unlock()
		return mat, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*scene.Material), nil
}
