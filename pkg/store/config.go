package store

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"tableflip.dev/catime/pkg/feed"
	"tableflip.dev/catime/pkg/gallery"
)

// DefaultGeneration is the cache generation retained by Activate.
const DefaultGeneration = "catime-static-v1"

// Config is the resolved runtime configuration.
type Config struct {
	Endpoints         feed.Endpoints `json:"endpoints" yaml:"endpoints"`
	LocalCatalog      string         `json:"local_catalog,omitempty" yaml:"local_catalog,omitempty"`
	CachePath         string         `json:"cache_path" yaml:"cache_path"`
	CacheGeneration   string         `json:"cache_generation" yaml:"cache_generation"`
	PrefsPath         string         `json:"prefs_path" yaml:"prefs_path"`
	PageSize          int            `json:"page_size" yaml:"page_size"`
	Timeout           time.Duration  `json:"timeout" yaml:"timeout"`
	RequestsPerSecond float64        `json:"requests_per_second" yaml:"requests_per_second"`
	DownloadDir       string         `json:"download_dir" yaml:"download_dir"`
	LogLevel          string         `json:"log_level" yaml:"log_level"`
	LogFile           string         `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	Theme             string         `json:"theme,omitempty" yaml:"theme,omitempty"`
}

func setDefaults() {
	endpoints := feed.DefaultEndpoints()
	viper.SetDefault("catalog_url", endpoints.Catalog)
	viper.SetDefault("cats_base_url", endpoints.CatsBase)
	viper.SetDefault("characters_base_url", endpoints.CharactersBase)
	viper.SetDefault("likes_url", endpoints.Likes)
	viper.SetDefault("comment_map_url", endpoints.CommentMap)
	viper.SetDefault("release_base_url", endpoints.ReleaseBase)
	viper.SetDefault("local_catalog", "")
	viper.SetDefault("cache_path", "~/.catime/cache")
	viper.SetDefault("cache_generation", DefaultGeneration)
	viper.SetDefault("prefs_path", "~/.catime/prefs")
	viper.SetDefault("page_size", gallery.DefaultPageSize)
	viper.SetDefault("timeout", feed.DefaultTimeout)
	viper.SetDefault("requests_per_second", 8)
	viper.SetDefault("download_dir", ".")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_file", "")
	viper.SetDefault("theme", "")
}

// LoadConfig reads the .catime config file from ./ or $CATIME_CONFIG_PATH,
// layered under CATIME_* environment variables and any bound flags.
func LoadConfig() (*Config, error) {
	setDefaults()
	viper.SetConfigName(".catime") // .yaml is implicit
	viper.SetEnvPrefix("CATIME")
	viper.AutomaticEnv()

	if override := os.Getenv("CATIME_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	cfg := &Config{
		Endpoints: feed.Endpoints{
			Catalog:        viper.GetString("catalog_url"),
			CatsBase:       viper.GetString("cats_base_url"),
			CharactersBase: viper.GetString("characters_base_url"),
			Likes:          viper.GetString("likes_url"),
			CommentMap:     viper.GetString("comment_map_url"),
			ReleaseBase:    viper.GetString("release_base_url"),
		},
		CacheGeneration:   viper.GetString("cache_generation"),
		PageSize:          viper.GetInt("page_size"),
		Timeout:           viper.GetDuration("timeout"),
		RequestsPerSecond: viper.GetFloat64("requests_per_second"),
		LogLevel:          viper.GetString("log_level"),
		Theme:             viper.GetString("theme"),
	}

	var err error
	for _, p := range []struct {
		dst *string
		key string
	}{
		{&cfg.LocalCatalog, "local_catalog"},
		{&cfg.CachePath, "cache_path"},
		{&cfg.PrefsPath, "prefs_path"},
		{&cfg.DownloadDir, "download_dir"},
		{&cfg.LogFile, "log_file"},
	} {
		if *p.dst, err = expand(viper.GetString(p.key)); err != nil {
			return nil, fmt.Errorf("store: %s: %w", p.key, err)
		}
	}
	if cfg.CacheGeneration == "" {
		cfg.CacheGeneration = DefaultGeneration
	}
	return cfg, nil
}

func expand(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return homedir.Expand(path)
}

// BasePath is the root of the response cache.
func (c *Config) BasePath() string {
	return c.CachePath
}

// CacheDir is the directory of the active cache generation.
func (c *Config) CacheDir() string {
	return filepath.Join(c.CachePath, c.CacheGeneration)
}

// FeedOptions builds the feed client options. transport may be nil.
func (c *Config) FeedOptions(transport http.RoundTripper, log *zap.Logger) feed.Options {
	return feed.Options{
		Endpoints:         c.Endpoints,
		LocalCatalog:      c.LocalCatalog,
		Timeout:           c.Timeout,
		RequestsPerSecond: c.RequestsPerSecond,
		Transport:         transport,
		Log:               log,
	}
}
