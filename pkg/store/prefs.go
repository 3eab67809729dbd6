package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

const themeKey = "theme"

// Prefs persists small user preferences, one file per key.
type Prefs struct {
	d *diskv.Diskv
}

// OpenPrefs opens the preference directory at path, creating it as needed.
func OpenPrefs(path string) (*Prefs, error) {
	if path == "" {
		return nil, errors.New("store: prefs path unknown")
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure prefs path: %w", err)
	}
	return &Prefs{d: diskv.New(diskv.Options{
		BasePath:     path,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 64 * 1024,
	})}, nil
}

// Get returns the value of key, or "" when unset.
func (p *Prefs) Get(key string) string {
	if !p.d.Has(key) {
		return ""
	}
	val, err := p.d.Read(key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(val))
}

// Set stores value under key. An empty value removes the key.
func (p *Prefs) Set(key, value string) error {
	if value == "" {
		if !p.d.Has(key) {
			return nil
		}
		return p.d.Erase(key)
	}
	return p.d.Write(key, []byte(value))
}

// Theme returns the saved theme name, or "".
func (p *Prefs) Theme() string { return p.Get(themeKey) }

// SetTheme saves the theme name.
func (p *Prefs) SetTheme(name string) error { return p.Set(themeKey, name) }
