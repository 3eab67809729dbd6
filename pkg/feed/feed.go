// Package feed fetches the published catime documents: the catalog, the
// per-month detail files, the social maps, character profiles and images.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"tableflip.dev/catime/pkg/catalog"
)

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("feed: not found")

const (
	DefaultCatalogURL        = "https://raw.githubusercontent.com/yazelin/catime/main/catlist.json"
	DefaultCatsBaseURL       = "https://raw.githubusercontent.com/yazelin/catime/main/cats/"
	DefaultCharactersBaseURL = "https://raw.githubusercontent.com/yazelin/catime/main/characters/"
	DefaultLikesURL          = "https://yazelin.github.io/catime/likes.json"
	DefaultCommentMapURL     = "https://yazelin.github.io/catime/comment_map.json"
	DefaultReleaseBaseURL    = "https://github.com/yazelin/catime/releases/download/cats/"

	DefaultTimeout = 15 * time.Second

	userAgent = "catime (+https://github.com/yazelin/catime)"
)

// Endpoints locates the published documents.
type Endpoints struct {
	Catalog        string `json:"catalog" yaml:"catalog"`
	CatsBase       string `json:"cats_base" yaml:"cats_base"`
	CharactersBase string `json:"characters_base" yaml:"characters_base"`
	Likes          string `json:"likes" yaml:"likes"`
	CommentMap     string `json:"comment_map" yaml:"comment_map"`
	ReleaseBase    string `json:"release_base" yaml:"release_base"`
}

// DefaultEndpoints points at the public catime repository and site.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Catalog:        DefaultCatalogURL,
		CatsBase:       DefaultCatsBaseURL,
		CharactersBase: DefaultCharactersBaseURL,
		Likes:          DefaultLikesURL,
		CommentMap:     DefaultCommentMapURL,
		ReleaseBase:    DefaultReleaseBaseURL,
	}
}

// DetailURL is the detail document of a "YYYY-MM" group.
func (e Endpoints) DetailURL(group string) string {
	return e.CatsBase + group + ".json"
}

// CharacterURL is the profile document of a character id.
func (e Endpoints) CharacterURL(id string) string {
	return e.CharactersBase + url.PathEscape(id) + ".json"
}

// StatusError is returned for non-2xx responses other than 404.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed: GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Options configures a Client.
type Options struct {
	Endpoints Endpoints
	// LocalCatalog reads the catalog from a file instead of Endpoints.Catalog.
	LocalCatalog string
	Timeout      time.Duration
	// RequestsPerSecond throttles outgoing requests; zero disables the limit.
	RequestsPerSecond float64
	// Transport wraps the network, eg. the offline cache layer.
	Transport http.RoundTripper
	Log       *zap.Logger
}

// Client retrieves feed documents. It is safe for concurrent use.
type Client struct {
	endpoints Endpoints
	local     string
	http      *http.Client
	limiter   *rate.Limiter
	log       *zap.Logger
}

// New creates a Client. Zero options fall back to the public endpoints and
// DefaultTimeout.
func New(opts Options) *Client {
	endpoints := opts.Endpoints
	if endpoints == (Endpoints{}) {
		endpoints = DefaultEndpoints()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return &Client{
		endpoints: endpoints,
		local:     opts.LocalCatalog,
		http: &http.Client{
			Timeout:   timeout,
			Transport: opts.Transport,
		},
		limiter: limiter,
		log:     log,
	}
}

// Endpoints returns the configured document locations.
func (c *Client) Endpoints() Endpoints { return c.endpoints }

// Local returns the local catalog path, or "".
func (c *Client) Local() string { return c.local }

// Fetch GETs rawURL and returns the body of a 2xx response.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("feed: request %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed: GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	c.log.Debug("fetched",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feed: read %s: %w", rawURL, err)
	}
	return body, nil
}

// Catalog loads and normalizes the catalog, failed generations included.
func (c *Client) Catalog(ctx context.Context) ([]catalog.Item, error) {
	var (
		data []byte
		err  error
	)
	if c.local != "" {
		data, err = os.ReadFile(c.local)
		if err != nil {
			return nil, fmt.Errorf("feed: read local catalog: %w", err)
		}
	} else {
		data, err = c.Fetch(ctx, c.endpoints.Catalog)
		if err != nil {
			return nil, err
		}
	}
	items, err := catalog.Normalize(data)
	if err != nil {
		return nil, err
	}
	c.log.Debug("catalog loaded", zap.Int("items", len(items)))
	return items, nil
}

// WorkingSet loads the catalog and returns the displayable cats, newest first.
func (c *Client) WorkingSet(ctx context.Context) ([]catalog.Item, error) {
	items, err := c.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.WorkingSet(items), nil
}

// Details fetches the detail document of a "YYYY-MM" group. A document that
// is not an array reads as empty.
func (c *Client) Details(ctx context.Context, group string) ([]catalog.Detail, error) {
	data, err := c.Fetch(ctx, c.endpoints.DetailURL(group))
	if err != nil {
		return nil, err
	}
	return catalog.ParseDetails(data), nil
}

// Likes fetches the like counts. Failures degrade to an empty map.
func (c *Client) Likes(ctx context.Context) catalog.Likes {
	if c.endpoints.Likes == "" {
		return catalog.Likes{}
	}
	data, err := c.Fetch(ctx, c.endpoints.Likes)
	if err != nil {
		c.log.Debug("likes unavailable", zap.Error(err))
		return catalog.Likes{}
	}
	return catalog.ParseLikes(data)
}

// Comments fetches the discussion links. Failures degrade to an empty map.
func (c *Client) Comments(ctx context.Context) catalog.Comments {
	if c.endpoints.CommentMap == "" {
		return catalog.Comments{}
	}
	data, err := c.Fetch(ctx, c.endpoints.CommentMap)
	if err != nil {
		c.log.Debug("comment map unavailable", zap.Error(err))
		return catalog.Comments{}
	}
	return catalog.ParseComments(data)
}

// Character fetches the raw profile document of a character id.
func (c *Client) Character(ctx context.Context, id string) ([]byte, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty character id", ErrNotFound)
	}
	return c.Fetch(ctx, c.endpoints.CharacterURL(id))
}

// Image fetches the image bytes of item.
func (c *Client) Image(ctx context.Context, item catalog.Item) ([]byte, error) {
	if item.URL == "" {
		return nil, fmt.Errorf("feed: cat #%d has no image", item.Number)
	}
	return c.Fetch(ctx, item.URL)
}

// ImageFetcher retrieves image bytes.
type ImageFetcher interface {
	Image(ctx context.Context, item catalog.Item) ([]byte, error)
}

// ImageFilename is the name a downloaded cat is saved under.
func ImageFilename(item catalog.Item) string {
	return fmt.Sprintf("catime-cat-%d.png", item.Number)
}

// Download fetches the image of item and writes it into dir, returning the
// written path.
func Download(ctx context.Context, f ImageFetcher, item catalog.Item, dir string) (string, error) {
	data, err := f.Image(ctx, item)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("feed: create download directory: %w", err)
	}
	path := filepath.Join(dir, ImageFilename(item))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("feed: write %s: %w", path, err)
	}
	return path, nil
}
