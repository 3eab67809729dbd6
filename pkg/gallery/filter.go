// Package gallery coordinates the filtered, incrementally rendered view of the
// catalog: predicate filtering, paging, the lightbox cursor and the per-month
// detail cache. It has no knowledge of how cards are drawn.
package gallery

import (
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/catime/pkg/catalog"
)

// Inspiration selects cats by inspiration kind.
type Inspiration string

const (
	InspirationAll      Inspiration = "all"
	InspirationOriginal Inspiration = "original"
	InspirationNews     Inspiration = "news"
)

// ParseInspiration accepts "", "all", "original" and "news".
func ParseInspiration(s string) (Inspiration, error) {
	switch Inspiration(strings.ToLower(strings.TrimSpace(s))) {
	case "", InspirationAll:
		return InspirationAll, nil
	case InspirationOriginal:
		return InspirationOriginal, nil
	case InspirationNews:
		return InspirationNews, nil
	}
	return "", fmt.Errorf("gallery: unknown inspiration %q (expected all, original or news)", s)
}

// Next cycles all -> original -> news -> all.
func (i Inspiration) Next() Inspiration {
	switch i {
	case InspirationOriginal:
		return InspirationNews
	case InspirationNews:
		return InspirationAll
	default:
		return InspirationOriginal
	}
}

// Filter is the predicate state. Empty fields do not constrain.
type Filter struct {
	Model       string      `json:"model,omitempty"`
	Character   string      `json:"character,omitempty"`
	Inspiration Inspiration `json:"inspiration,omitempty"`
	Date        string      `json:"date,omitempty"`
	Query       string      `json:"query,omitempty"`
}

// IsZero reports if no predicate is active.
func (f Filter) IsZero() bool {
	return f.Model == "" && f.Character == "" && f.Date == "" && f.Query == "" &&
		(f.Inspiration == "" || f.Inspiration == InspirationAll)
}

// Matches reports if item satisfies every active predicate.
func (f Filter) Matches(item catalog.Item) bool {
	if f.Model != "" && item.Model != f.Model {
		return false
	}
	if f.Character != "" && item.CharacterName != f.Character {
		return false
	}
	switch f.Inspiration {
	case InspirationOriginal:
		if item.Inspiration != catalog.Original {
			return false
		}
	case InspirationNews:
		if !item.IsNews() {
			return false
		}
	}
	if f.Date != "" && !strings.HasPrefix(item.Timestamp, f.Date) {
		return false
	}
	if q := normalizeQuery(f.Query); q != "" {
		if !strings.Contains(strconv.Itoa(item.Number), q) &&
			!strings.Contains(strings.ToLower(item.Title), q) {
			return false
		}
	}
	return true
}

// Compute returns the items matching f in catalog order.
func Compute(items []catalog.Item, f Filter) []catalog.Item {
	out := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if f.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
