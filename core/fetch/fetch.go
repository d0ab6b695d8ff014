// Package fetch dereferences URI docuverses. A Fetcher performs one
// best-effort read of a location; there is no retry policy.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/FocuswithJustin/earmark/core/cache"
	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/internal/logging"
)

// Fetcher reads the content found at a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Func adapts a function to the Fetcher interface.
type Func func(ctx context.Context, location string) ([]byte, error)

// Fetch calls f.
func (f Func) Fetch(ctx context.Context, location string) ([]byte, error) {
	return f(ctx, location)
}

// Options configures an HTTPFetcher.
type Options struct {
	Timeout   time.Duration // Per-request timeout
	UserAgent string        // User-Agent header sent with HTTP requests
	AllowFile bool          // Whether file:// locations may be read
	MaxBytes  int64         // Upper bound on the body size, <= 0 for no limit
}

// DefaultOptions returns the options used by Default. Local files are
// not readable unless AllowFile is set.
func DefaultOptions() Options {
	return Options{
		Timeout:   30 * time.Second,
		UserAgent: "earmark/1.0",
		MaxBytes:  64 << 20,
	}
}

// HTTPFetcher fetches http, https and (optionally) file locations.
type HTTPFetcher struct {
	client *http.Client
	opts   Options
}

// NewHTTPFetcher returns a fetcher whose requests go through the logging
// transport.
func NewHTTPFetcher(opts Options) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: logging.NewTransport(nil),
		},
		opts: opts,
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing location %q", location)
	}

	switch u.Scheme {
	case "http", "https":
		return f.fetchHTTP(ctx, u)
	case "file":
		if !f.opts.AllowFile {
			return nil, errors.NewUnsupported("file location", "file access is disabled")
		}
		return f.fetchFile(u)
	default:
		return nil, errors.NewUnsupported("scheme", fmt.Sprintf("cannot fetch %q", location))
	}
}

func (f *HTTPFetcher) fetchHTTP(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.NewIO("fetch", u.String(), err)
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.NewIO("fetch", u.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.NewNotFound("location", u.String())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewIO("fetch", u.String(), fmt.Errorf("unexpected status %s", resp.Status))
	}
	return f.read(u.String(), resp.Body)
}

func (f *HTTPFetcher) fetchFile(u *url.URL) ([]byte, error) {
	file, err := os.Open(u.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.NotFoundError{Resource: "location", ID: u.String(), Err: err}
		}
		return nil, errors.NewIO("open", u.Path, err)
	}
	defer file.Close()
	return f.read(u.String(), file)
}

func (f *HTTPFetcher) read(location string, r io.Reader) ([]byte, error) {
	if f.opts.MaxBytes > 0 {
		r = io.LimitReader(r, f.opts.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIO("read", location, err)
	}
	if f.opts.MaxBytes > 0 && int64(len(data)) > f.opts.MaxBytes {
		return nil, errors.NewIO("read", location, fmt.Errorf("content exceeds %d bytes", f.opts.MaxBytes))
	}
	return data, nil
}

// CachingFetcher memoizes the results of another fetcher in a shared
// content cache. Failures are not cached.
type CachingFetcher struct {
	next  Fetcher
	cache *cache.ContentCache
}

// NewCachingFetcher wraps next with c.
func NewCachingFetcher(next Fetcher, c *cache.ContentCache) *CachingFetcher {
	if c == nil {
		c = cache.NewDefaultContentCache()
	}
	return &CachingFetcher{next: next, cache: c}
}

// Fetch implements Fetcher.
func (f *CachingFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if data, ok := f.cache.Get(location); ok {
		return data, nil
	}
	data, err := f.next.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	f.cache.Put(location, data)
	return data, nil
}

// Cache returns the underlying content cache.
func (f *CachingFetcher) Cache() *cache.ContentCache { return f.cache }

// New builds a caching HTTP fetcher from opts and a cache configuration.
func New(opts Options, cfg cache.Config) *CachingFetcher {
	return NewCachingFetcher(NewHTTPFetcher(opts), cache.NewContentCache(cfg))
}

// Default is the process-wide fetcher used by documents created without
// an explicit one.
var Default Fetcher = NewCachingFetcher(NewHTTPFetcher(DefaultOptions()), nil)
