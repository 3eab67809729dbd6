// Package character loads character profiles and the cats that feature them.
package character

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/feed"
)

// ErrNotFound is returned when the profile document does not exist.
var ErrNotFound = errors.New("character: not found")

// Name is the bilingual display name.
type Name struct {
	Zh string `json:"zh,omitempty" yaml:"zh,omitempty"`
	En string `json:"en,omitempty" yaml:"en,omitempty"`
}

// Personality lists traits and quirks.
type Personality struct {
	Traits []string `json:"traits,omitempty" yaml:"traits,omitempty"`
	Quirks []string `json:"quirks,omitempty" yaml:"quirks,omitempty"`
}

// Appearance lists distinguishing features.
type Appearance struct {
	DistinctiveFeatures []string `json:"distinctive_features,omitempty" yaml:"distinctive_features,omitempty"`
}

// Profile is a recurring character.
type Profile struct {
	ID                string                    `json:"id" yaml:"id"`
	Name              Name                      `json:"name" yaml:"name"`
	Personality       Personality               `json:"personality" yaml:"personality"`
	Appearance        Appearance                `json:"appearance" yaml:"appearance"`
	StoryContext      string                    `json:"story_context,omitempty" yaml:"story_context,omitempty"`
	PreferredSettings []string                  `json:"preferred_settings,omitempty" yaml:"preferred_settings,omitempty"`
	SeasonalVariants  map[catalog.Season]string `json:"seasonal_variants,omitempty" yaml:"seasonal_variants,omitempty"`
}

// DisplayName is "<zh> / <en>", or whichever half is present, or the id.
func (p Profile) DisplayName() string {
	switch {
	case p.Name.Zh != "" && p.Name.En != "":
		return p.Name.Zh + " / " + p.Name.En
	case p.Name.Zh != "":
		return p.Name.Zh
	case p.Name.En != "":
		return p.Name.En
	}
	return p.ID
}

// Fetcher is the subset of the feed client used to load profiles.
type Fetcher interface {
	Character(ctx context.Context, id string) ([]byte, error)
	Catalog(ctx context.Context) ([]catalog.Item, error)
}

// Page is a profile together with its gallery.
type Page struct {
	Profile Profile        `json:"profile" yaml:"profile"`
	Gallery []catalog.Item `json:"gallery" yaml:"gallery"`
}

// Parse decodes a profile document and strips any markup from its text.
func Parse(data []byte, id string) (Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("character: decode %s: %w", id, err)
	}
	if p.ID == "" {
		p.ID = id
	}
	return sanitize(p), nil
}

// Load fetches the profile of id and its gallery. A missing profile is an
// error; a catalog failure degrades to an empty gallery.
func Load(ctx context.Context, f Fetcher, id string, log *zap.Logger) (*Page, error) {
	if log == nil {
		log = zap.NewNop()
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: no character id specified", ErrNotFound)
	}

	data, err := f.Character(ctx, id)
	if err != nil {
		if errors.Is(err, feed.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("character: load %s: %w", id, err)
	}
	profile, err := Parse(data, id)
	if err != nil {
		return nil, err
	}

	items, err := f.Catalog(ctx)
	if err != nil {
		log.Debug("catalog unavailable; empty gallery", zap.String("character", id), zap.Error(err))
		items = nil
	}
	return &Page{Profile: profile, Gallery: Gallery(items, profile.ID)}, nil
}

// Gallery returns the cats tagged with id. When none are tagged it falls back
// to cats whose url mentions id. The result is sorted by number, newest
// first.
func Gallery(items []catalog.Item, id string) []catalog.Item {
	matched := make([]catalog.Item, 0)
	for _, item := range items {
		if item.Character == id {
			matched = append(matched, item)
		}
	}
	if len(matched) == 0 && id != "" {
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.URL), id) {
				matched = append(matched, item)
			}
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Number > matched[j].Number
	})
	return matched
}

var policy = bluemonday.StrictPolicy()

// Clean removes markup from feed supplied text. Entities escaped by the
// sanitizer are decoded again since the result is not HTML.
func Clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}

func cleanAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if c := Clean(s); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func sanitize(p Profile) Profile {
	p.Name.Zh = Clean(p.Name.Zh)
	p.Name.En = Clean(p.Name.En)
	p.Personality.Traits = cleanAll(p.Personality.Traits)
	p.Personality.Quirks = cleanAll(p.Personality.Quirks)
	p.Appearance.DistinctiveFeatures = cleanAll(p.Appearance.DistinctiveFeatures)
	p.StoryContext = Clean(p.StoryContext)
	p.PreferredSettings = cleanAll(p.PreferredSettings)
	if p.SeasonalVariants != nil {
		variants := make(map[catalog.Season]string, len(p.SeasonalVariants))
		for season, text := range p.SeasonalVariants {
			if c := Clean(text); c != "" {
				variants[season] = c
			}
		}
		p.SeasonalVariants = variants
	}
	return p
}
