package commands

import (
	"go.uber.org/zap"

	"tableflip.dev/catime/pkg/feed"
	"tableflip.dev/catime/pkg/logging"
	"tableflip.dev/catime/pkg/offline"
	"tableflip.dev/catime/pkg/store"
)

// env is what every command needs to talk to the feed.
type env struct {
	cfg   *store.Config
	log   *zap.Logger
	cache *store.Cache
	feed  *feed.Client
}

// loadEnv reads the configuration and builds the cached feed client. The
// terminal UI owns stderr, so tui only logs when a log_file is configured.
func loadEnv(tui bool) (*env, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Discard: tui})
	if err != nil {
		return nil, err
	}
	cache, err := store.OpenActiveCache(cfg, log.Named("cache"))
	if err != nil {
		return nil, err
	}
	transport := offline.New(nil, cache, cfg.Endpoints.ReleaseBase, log.Named("offline"))
	client := feed.New(cfg.FeedOptions(transport, log.Named("feed")))
	log.Debug("environment ready",
		zap.String("cache", cfg.CacheDir()),
		zap.String("catalog", source(cfg)))
	return &env{cfg: cfg, log: log, cache: cache, feed: client}, nil
}

func source(cfg *store.Config) string {
	if cfg.LocalCatalog != "" {
		return cfg.LocalCatalog
	}
	return cfg.Endpoints.Catalog
}

func (e *env) close() {
	_ = e.log.Sync()
}
