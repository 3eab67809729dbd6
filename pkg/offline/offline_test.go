package offline

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/catime/pkg/feed"
	"tableflip.dev/catime/pkg/store"
)

type origin struct {
	srv  *httptest.Server
	hits int32
	down int32
}

func newOrigin(t *testing.T) *origin {
	t.Helper()
	o := &origin{}
	o.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&o.hits, 1)
		if atomic.LoadInt32(&o.down) == 1 {
			// Hijack and drop the connection to simulate a network failure.
			hj, ok := w.(http.Hijacker)
			if ok {
				conn, _, _ := hj.Hijack()
				conn.Close()
				return
			}
		}
		switch r.URL.Path {
		case "/missing.json":
			http.NotFound(w, r)
			return
		case "/catlist.json":
			w.Header().Set("Content-Type", "application/json")
		}
		_, _ = w.Write([]byte("body:" + r.URL.Path))
	}))
	t.Cleanup(o.srv.Close)
	return o
}

func (o *origin) get(t *testing.T, c *http.Client, path string) (*http.Response, string, error) {
	t.Helper()
	resp, err := c.Get(o.srv.URL + path)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body), nil
}

func newClient(t *testing.T, o *origin) (*http.Client, *store.Cache) {
	t.Helper()
	cache, err := store.OpenCache(t.TempDir(), "")
	require.NoError(t, err)
	return &http.Client{Transport: New(nil, cache, o.srv.URL+"/releases/", nil)}, cache
}

func TestClassify(t *testing.T) {
	tr := New(nil, nil, "https://github.com/yazelin/catime/releases/download/cats/", nil)
	tests := []struct {
		method string
		url    string
		want   Strategy
	}{
		{http.MethodGet, "https://raw.githubusercontent.com/yazelin/catime/main/catlist.json", NetworkFirst},
		{http.MethodGet, "https://example.com/proxy?src=catlist.json", NetworkFirst},
		{http.MethodGet, "https://github.com/yazelin/catime/releases/download/cats/cat_1.png", NetworkFirst},
		{http.MethodGet, "https://yazelin.github.io/catime/", CacheFirst},
		{http.MethodGet, "https://yazelin.github.io/catime/app.js", CacheFirst},
		{http.MethodGet, "https://yazelin.github.io/catime/style.css", CacheFirst},
		{http.MethodGet, "https://yazelin.github.io/catime/favicon.ico", CacheFirst},
		{http.MethodGet, "https://yazelin.github.io/catime/apple-touch-icon.png", CacheFirst},
		{http.MethodGet, "https://yazelin.github.io/catime/photo.png", PassThrough},
		{http.MethodGet, "https://raw.githubusercontent.com/yazelin/catime/main/cats/2024-01.json", PassThrough},
		{http.MethodPost, "https://raw.githubusercontent.com/yazelin/catime/main/catlist.json", PassThrough},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, tt.url, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tr.Classify(req))
		})
	}
}

func TestNetworkFirstFallsBackToCache(t *testing.T) {
	o := newOrigin(t)
	c, cache := newClient(t, o)

	resp, body, err := o.get(t, c, "/catlist.json")
	require.NoError(t, err)
	assert.Equal(t, "body:/catlist.json", body)
	assert.Empty(t, resp.Header.Get(CacheHeader))
	assert.True(t, cache.Has(o.srv.URL+"/catlist.json"))

	atomic.StoreInt32(&o.down, 1)
	resp, body, err = o.get(t, c, "/catlist.json")
	require.NoError(t, err)
	assert.Equal(t, "body:/catlist.json", body)
	assert.Equal(t, "hit", resp.Header.Get(CacheHeader))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	_, _, err = o.get(t, c, "/releases/never-seen.png")
	assert.Error(t, err, "uncached network-first request surfaces the network error")
}

func TestNetworkFirstPrefersNetwork(t *testing.T) {
	o := newOrigin(t)
	c, _ := newClient(t, o)

	_, _, err := o.get(t, c, "/releases/cat_1.png")
	require.NoError(t, err)
	resp, _, err := o.get(t, c, "/releases/cat_1.png")
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get(CacheHeader))
	assert.Equal(t, int32(2), atomic.LoadInt32(&o.hits))
}

func TestCacheFirstServesStoredCopy(t *testing.T) {
	o := newOrigin(t)
	c, _ := newClient(t, o)

	_, body, err := o.get(t, c, "/app.js")
	require.NoError(t, err)
	assert.Equal(t, "body:/app.js", body)

	resp, body, err := o.get(t, c, "/app.js")
	require.NoError(t, err)
	assert.Equal(t, "body:/app.js", body)
	assert.Equal(t, "hit", resp.Header.Get(CacheHeader))
	assert.Equal(t, int32(1), atomic.LoadInt32(&o.hits))
}

func TestFailedResponsesAreNotStored(t *testing.T) {
	o := newOrigin(t)
	c, cache := newClient(t, o)

	resp, _, err := o.get(t, c, "/missing.json")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, cache.Has(o.srv.URL+"/missing.json"))
}

func TestPassThroughIsNotStored(t *testing.T) {
	o := newOrigin(t)
	c, cache := newClient(t, o)

	_, _, err := o.get(t, c, "/cats/2024-01.json")
	require.NoError(t, err)
	assert.False(t, cache.Has(o.srv.URL+"/cats/2024-01.json"))
}

func TestFeedClientOverTransport(t *testing.T) {
	o := newOrigin(t)
	cache, err := store.OpenCache(t.TempDir(), "")
	require.NoError(t, err)
	client := feed.New(feed.Options{
		Endpoints: feed.Endpoints{Catalog: o.srv.URL + "/catlist.json"},
		Transport: New(nil, cache, "", nil),
	})

	data, err := client.Fetch(context.Background(), o.srv.URL+"/catlist.json")
	require.NoError(t, err)
	assert.Equal(t, "body:/catlist.json", string(data))

	atomic.StoreInt32(&o.down, 1)
	data, err = client.Fetch(context.Background(), o.srv.URL+"/catlist.json")
	require.NoError(t, err)
	assert.Equal(t, "body:/catlist.json", string(data))
}
