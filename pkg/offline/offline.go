// Package offline keeps the catalog, released images and static assets
// usable without a network by caching GET responses on disk.
package offline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"tableflip.dev/catime/pkg/store"
)

// Strategy is how a request is served.
type Strategy int

const (
	// PassThrough requests go straight to the network.
	PassThrough Strategy = iota
	// NetworkFirst requests prefer the network and fall back to the cache
	// when the network fails.
	NetworkFirst
	// CacheFirst requests are served from the cache when present.
	CacheFirst
)

func (s Strategy) String() string {
	switch s {
	case NetworkFirst:
		return "network-first"
	case CacheFirst:
		return "cache-first"
	}
	return "pass-through"
}

// CacheHeader marks responses replayed from the cache.
const CacheHeader = "X-Catime-Cache"

var (
	catalogRE = regexp.MustCompile(`catlist\.json$`)
	iconRE    = regexp.MustCompile(`(icon|favicon|apple-touch-icon)`)
)

var staticExt = map[string]bool{
	".html": true,
	".htm":  true,
	".css":  true,
	".js":   true,
	".mjs":  true,
}

var imageExt = map[string]bool{
	".png":  true,
	".ico":  true,
	".svg":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// Store is the response storage used by Transport.
type Store interface {
	Read(rawURL string) (*store.Response, error)
	Write(r *store.Response) error
}

// Transport is an http.RoundTripper that applies the caching strategies.
type Transport struct {
	base        http.RoundTripper
	cache       Store
	releaseBase string
	log         *zap.Logger
}

// New wraps base. A nil base uses http.DefaultTransport.
func New(base http.RoundTripper, cache Store, releaseBase string, log *zap.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Transport{base: base, cache: cache, releaseBase: releaseBase, log: log}
}

// Classify picks the strategy for req.
func (t *Transport) Classify(req *http.Request) Strategy {
	if req.Method != http.MethodGet || req.URL == nil {
		return PassThrough
	}
	href := req.URL.String()
	if catalogRE.MatchString(req.URL.Path) || strings.Contains(href, "catlist.json") {
		return NetworkFirst
	}
	if t.releaseBase != "" && strings.HasPrefix(href, t.releaseBase) {
		return NetworkFirst
	}
	ext := strings.ToLower(path.Ext(req.URL.Path))
	if staticExt[ext] || strings.HasSuffix(req.URL.Path, "/") {
		return CacheFirst
	}
	if imageExt[ext] && iconRE.MatchString(req.URL.Path) {
		return CacheFirst
	}
	return PassThrough
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.cache == nil {
		return t.base.RoundTrip(req)
	}
	switch t.Classify(req) {
	case NetworkFirst:
		return t.networkFirst(req)
	case CacheFirst:
		return t.cacheFirst(req)
	default:
		return t.base.RoundTrip(req)
	}
}

func (t *Transport) networkFirst(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		if cached, cerr := t.replay(req); cerr == nil {
			t.log.Debug("network failed; serving cached copy",
				zap.String("url", req.URL.String()), zap.Error(err))
			return cached, nil
		}
		return nil, err
	}
	return t.store(req, resp)
}

func (t *Transport) cacheFirst(req *http.Request) (*http.Response, error) {
	if cached, err := t.replay(req); err == nil {
		return cached, nil
	}
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	return t.store(req, resp)
}

// store records a 2xx response and hands back an equivalent response whose
// body is readable again.
func (t *Transport) store(req *http.Request, resp *http.Response) (*http.Response, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, nil
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("offline: read %s: %w", req.URL, err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))

	if err := t.cache.Write(&store.Response{
		URL:         req.URL.String(),
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}); err != nil {
		t.log.Warn("cache write failed", zap.String("url", req.URL.String()), zap.Error(err))
	}
	return resp, nil
}

func (t *Transport) replay(req *http.Request) (*http.Response, error) {
	cached, err := t.cache.Read(req.URL.String())
	if err != nil {
		return nil, err
	}
	if cached == nil {
		return nil, errors.New("offline: empty cache entry")
	}
	header := make(http.Header)
	if cached.ContentType != "" {
		header.Set("Content-Type", cached.ContentType)
	}
	header.Set("Content-Length", strconv.Itoa(len(cached.Body)))
	header.Set(CacheHeader, "hit")
	status := cached.Status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(cached.Body)),
		ContentLength: int64(len(cached.Body)),
		Request:       req,
	}, nil
}
