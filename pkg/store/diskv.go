package store

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"
)

// ErrNotCached is returned by Cache.Read for unknown URLs.
var ErrNotCached = errors.New("store: not cached")

// Response is a stored copy of a successful GET.
type Response struct {
	URL         string    `json:"url"`
	Status      int       `json:"status"`
	ContentType string    `json:"content_type,omitempty"`
	Stored      time.Time `json:"stored"`
	Body        []byte    `json:"body"`
}

// Cache stores responses of one generation under <root>/<generation>.
type Cache struct {
	d          *diskv.Diskv
	root       string
	generation string
}

// OpenCache opens the generation directory, creating it as needed.
func OpenCache(root, generation string) (*Cache, error) {
	if root == "" {
		return nil, errors.New("store: cache path unknown")
	}
	if generation == "" {
		generation = DefaultGeneration
	}
	basePath := filepath.Join(root, generation)
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure cache path: %w", err)
	}
	return &Cache{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		root:       root,
		generation: generation,
	}, nil
}

// OpenConfigCache opens the cache generation named by cfg.
func OpenConfigCache(cfg *Config) (*Cache, error) {
	return OpenCache(cfg.BasePath(), cfg.CacheGeneration)
}

// OpenActiveCache opens the generation named by cfg and activates it,
// purging older generations. A failed purge is logged; the cache is still
// usable.
func OpenActiveCache(cfg *Config, log *zap.Logger) (*Cache, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c, err := OpenConfigCache(cfg)
	if err != nil {
		return nil, err
	}
	purged, err := c.Activate()
	if len(purged) > 0 {
		log.Info("purged old cache generations", zap.Strings("generations", purged), zap.String("retained", c.generation))
	}
	if err != nil {
		log.Warn("cache activation failed", zap.Error(err))
	}
	return c, nil
}

// Generation is the retained generation name.
func (c *Cache) Generation() string { return c.generation }

// Read returns the stored response for rawURL.
func (c *Cache) Read(rawURL string) (*Response, error) {
	key := toKey(rawURL)
	if !c.d.Has(key) {
		return nil, ErrNotCached
	}
	val, err := c.d.Read(key)
	if err != nil {
		return nil, err
	}
	r := &Response{}
	if err := json.Unmarshal(val, r); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", rawURL, err)
	}
	return r, nil
}

// Write stores r under its URL.
func (c *Cache) Write(r *Response) error {
	if r.Stored.IsZero() {
		r.Stored = time.Now()
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return c.d.Write(toKey(r.URL), data)
}

// Has reports if rawURL is cached.
func (c *Cache) Has(rawURL string) bool {
	return c.d.Has(toKey(rawURL))
}

// List returns every stored response without bodies, sorted by URL.
func (c *Cache) List(ctx context.Context) []Response {
	all := make([]Response, 0)
	for key := range c.d.Keys(ctx.Done()) {
		val, err := c.d.Read(key)
		if err != nil {
			continue
		}
		r := Response{}
		if err := json.Unmarshal(val, &r); err != nil {
			continue
		}
		r.Body = nil
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].URL < all[j].URL })
	return all
}

// Activate deletes every generation directory under the cache root except
// the retained one and returns the names it removed.
func (c *Cache) Activate() ([]string, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return nil, fmt.Errorf("store: list generations: %w", err)
	}
	var purged []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == c.generation {
			continue
		}
		if err := os.RemoveAll(filepath.Join(c.root, e.Name())); err != nil {
			return purged, fmt.Errorf("store: purge %s: %w", e.Name(), err)
		}
		purged = append(purged, e.Name())
	}
	return purged, nil
}

// Clear erases the retained generation.
func (c *Cache) Clear() error {
	return c.d.EraseAll()
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `host-digest`
func toKey(rawURL string) string {
	host := "local"
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}
	sum := md5.Sum([]byte(rawURL))
	return fmt.Sprintf("%x-%x", host, sum[:])
}
