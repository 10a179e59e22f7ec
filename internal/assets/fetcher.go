// Package assets fetches images, models, fonts and JSON documents from a local
// directory or an HTTP base URL, retrying transient failures.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"hall-of-fame/scene"
)

// ErrNotFound reports a missing asset. It is never retried.
var ErrNotFound = errors.New("asset not found")

// Fetcher resolves asset references against Base. Absolute http(s) URLs are
// fetched as-is; anything else is joined to Base, which is either a
// directory or an http(s) URL.
type Fetcher struct {
	Base       string
	Client     *http.Client
	MaxRetries uint64
	// InitialInterval seeds the exponential backoff between attempts.
	InitialInterval time.Duration

	mu     sync.Mutex
	failed map[string]error
	onErr  func(ref string, err error)
}

func NewFetcher(base string) *Fetcher {
	return &Fetcher{
		Base:            base,
		Client:          &http.Client{Timeout: 30 * time.Second},
		MaxRetries:      3,
		InitialInterval: 250 * time.Millisecond,
		failed:          make(map[string]error),
	}
}

// OnError registers fn to be called after a reference finally fails.
func (f *Fetcher) OnError(fn func(ref string, err error)) {
	f.mu.Lock()
	f.onErr = fn
	f.mu.Unlock()
}

// Get returns the bytes of ref, retrying with exponential backoff. An
// empty ref names no asset and is reported as ErrNotFound without a fetch.
func (f *Fetcher) Get(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrNotFound)
	}
	var data []byte
	op := func() error {
		var err error
		data, err = f.fetchOnce(ctx, ref)
		if errors.Is(err, ErrNotFound) {
			return backoff.Permanent(err)
		}
		return err
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = f.InitialInterval
	b := backoff.WithContext(backoff.WithMaxRetries(eb, f.MaxRetries), ctx)

	notify := func(err error, wait time.Duration) {
		log.Printf("[Assets] %s: %v (retrying in %v)", ref, err, wait.Round(time.Millisecond))
	}
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		err = fmt.Errorf("fetch %s: %w", ref, err)
		f.recordFailure(ref, err)
		return nil, err
	}
	f.clearFailure(ref)
	return data, nil
}

// Failures returns the references that failed on their last attempt.
func (f *Fetcher) Failures() map[string]error {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]error, len(f.failed))
	for k, v := range f.failed {
		out[k] = v
	}
	return out
}

func (f *Fetcher) recordFailure(ref string, err error) {
	f.mu.Lock()
	f.failed[ref] = err
	fn := f.onErr
	f.mu.Unlock()
	log.Printf("[Assets] failed: %v", err)
	if fn != nil {
		fn(ref, err)
	}
}

func (f *Fetcher) clearFailure(ref string) {
	f.mu.Lock()
	delete(f.failed, ref)
	f.mu.Unlock()
}

func (f *Fetcher) fetchOnce(ctx context.Context, ref string) ([]byte, error) {
	target := f.resolve(ref)
	if !isHTTP(target) {
		data, err := os.ReadFile(target)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, target)
		}
		return data, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, target)
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
		return nil, backoff.Permanent(fmt.Errorf("GET %s: %s", target, resp.Status))
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("GET %s: %s", target, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// resolve joins ref to Base unless it is already absolute.
func (f *Fetcher) resolve(ref string) string {
	if isHTTP(ref) || filepath.IsAbs(ref) {
		return ref
	}
	ref = strings.TrimPrefix(ref, "./")
	if isHTTP(f.Base) {
		base, err := url.Parse(strings.TrimSuffix(f.Base, "/") + "/")
		if err != nil {
			return ref
		}
		rel, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return base.ResolveReference(rel).String()
	}
	return filepath.Join(f.Base, filepath.FromSlash(ref))
}

// LocalPath returns the filesystem path of ref when Base is a directory.
// glTF models reference sibling buffers and images, so they load from disk.
func (f *Fetcher) LocalPath(ref string) (string, bool) {
	target := f.resolve(ref)
	if isHTTP(target) {
		return "", false
	}
	return target, true
}

// Texture fetches and decodes an image. Upload happens on first draw.
func (f *Fetcher) Texture(ctx context.Context, ref string) (*scene.Texture, error) {
	data, err := f.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	tex, err := scene.DecodeTexture(ref, data)
	if err != nil {
		f.recordFailure(ref, err)
		return nil, err
	}
	return tex, nil
}

// ErrRemoteModel reports a model reference that does not resolve to disk.
var ErrRemoteModel = errors.New("models load from a local asset directory only")

// Model loads a glTF scene from disk. Failures are recorded like fetches.
func (f *Fetcher) Model(ctx context.Context, ref string) (*scene.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, ok := f.LocalPath(ref)
	if !ok {
		err := fmt.Errorf("model %s: %w", ref, ErrRemoteModel)
		f.recordFailure(ref, err)
		return nil, err
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		err = fmt.Errorf("model %s: %w", ref, ErrNotFound)
		f.recordFailure(ref, err)
		return nil, err
	}
	node, err := scene.LoadGLTF(path)
	if err != nil {
		err = fmt.Errorf("model %s: %w", ref, err)
		f.recordFailure(ref, err)
		return nil, err
	}
	f.clearFailure(ref)
	return node, nil
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
