package info

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/feed"
	"tableflip.dev/catime/pkg/store"
)

type staticCatalog []catalog.Item

func (s staticCatalog) WorkingSet(context.Context) ([]catalog.Item, error) { return s, nil }

func TestInfo(t *testing.T) {
	t.Setenv("CATIME_CONFIG_PATH", "")
	var buf bytes.Buffer
	cfg := &store.Config{
		CachePath:       "/var/cache/catime",
		CacheGeneration: store.DefaultGeneration,
		Endpoints:       feed.DefaultEndpoints(),
	}
	i := Info{
		Config:  cfg,
		Catalog: staticCatalog{{Number: 9, Timestamp: "2024-02-01 10:00", URL: "https://example.com/9.png"}},
		Out:     &buf,
	}
	require.NoError(t, i.Do(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "CATIME_CONFIG_PATH env var not set")
	assert.Contains(t, out, "/var/cache/catime/"+store.DefaultGeneration)
	assert.Contains(t, out, cfg.Endpoints.Catalog)
	assert.Contains(t, out, "Total cats: 1")
	assert.Contains(t, out, "Latest: #9")
}

func TestInfoLocalCatalog(t *testing.T) {
	var buf bytes.Buffer
	i := Info{Config: &store.Config{LocalCatalog: "/tmp/catlist.json"}, Catalog: staticCatalog{}, Out: &buf}
	require.NoError(t, i.Do(context.Background()))
	assert.Contains(t, buf.String(), "Catalog: /tmp/catlist.json")
	assert.Contains(t, buf.String(), "No cats yet!")
}
