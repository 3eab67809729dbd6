// Package catalog defines the records published by the catime feed and the
// normalization rules applied when they are loaded.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidCatalog is returned when the catalog payload is not a JSON array.
var ErrInvalidCatalog = errors.New("catalog: invalid cat list")

// StatusFailed marks generation attempts that never produced an image.
const StatusFailed = "failed"

// Original is the inspiration value used for cats that were not inspired by
// a news story.
const Original = "original"

// Season is the seasonal variant of a character portrait.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

var seasonIcons = map[Season]string{
	Spring: "🌸",
	Summer: "☀️",
	Autumn: "🍁",
	Winter: "❄️",
}

// Icon returns the glyph shown next to a seasonal character tag, or "" for
// unknown seasons.
func (s Season) Icon() string {
	return seasonIcons[s]
}

// Item is a single generated cat.
type Item struct {
	Number        int    `json:"number"`
	URL           string `json:"url"`
	Timestamp     string `json:"timestamp"`
	Title         string `json:"title,omitempty"`
	Model         string `json:"model,omitempty"`
	Character     string `json:"character,omitempty"`
	CharacterName string `json:"character_name,omitempty"`
	IsSeasonal    bool   `json:"is_seasonal,omitempty"`
	Season        Season `json:"season,omitempty"`
	Inspiration   string `json:"inspiration,omitempty"`
	Status        string `json:"status,omitempty"`
}

// Group returns the year-month prefix of the timestamp ("2024-01"). Details
// are published per group and the gallery separates cards by group.
func (i Item) Group() string {
	return GroupKey(i.Timestamp)
}

// Date returns the "YYYY-MM-DD" part of the timestamp.
func (i Item) Date() string {
	date, _, _ := strings.Cut(i.Timestamp, " ")
	return date
}

// IsNews reports if the cat was inspired by a news story.
func (i Item) IsNews() bool {
	return i.Inspiration != "" && i.Inspiration != Original
}

// InspirationLabel returns the tag shown for the inspiration kind, or "" when
// the item carries no inspiration.
func (i Item) InspirationLabel() string {
	switch {
	case i.Inspiration == "":
		return ""
	case i.IsNews():
		return "新聞靈感"
	default:
		return "原創"
	}
}

// CharacterTag renders the character name with the season icon appended.
func (i Item) CharacterTag() string {
	if i.CharacterName == "" {
		return ""
	}
	if icon := i.Season.Icon(); icon != "" {
		return i.CharacterName + " · " + icon
	}
	return i.CharacterName
}

// Key is the decimal string form of the number, used by the likes and
// comment maps.
func (i Item) Key() string {
	return strconv.Itoa(i.Number)
}

// GroupKey returns the first seven characters of a timestamp.
func GroupKey(timestamp string) string {
	if len(timestamp) < 7 {
		return timestamp
	}
	return timestamp[:7]
}

// Normalize decodes a catalog payload. The payload must be a JSON array;
// elements that are not objects or that lack a string timestamp, a number and
// a string url are dropped. Optional fields of the wrong type read as empty.
func Normalize(data []byte) ([]Item, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ErrInvalidCatalog
	}
	if raw == nil {
		// "null" decodes without error but is not an array.
		return nil, ErrInvalidCatalog
	}
	items := make([]Item, 0, len(raw))
	for _, elem := range raw {
		item, ok := decodeItem(elem)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Find returns the item with number.
func Find(items []Item, number int) (Item, bool) {
	for _, item := range items {
		if item.Number == number {
			return item, true
		}
	}
	return Item{}, false
}

// ParseNumber reads a cat number written as "12" or "#12".
func ParseNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("catalog: %q is not a cat number", s)
	}
	return n, nil
}

// WorkingSet drops failed generations and reverses the remaining items so the
// newest cat comes first. The input slice is not modified.
func WorkingSet(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for idx := len(items) - 1; idx >= 0; idx-- {
		if items[idx].Status == StatusFailed {
			continue
		}
		out = append(out, items[idx])
	}
	return out
}

func decodeItem(elem json.RawMessage) (Item, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
		return Item{}, false
	}
	timestamp, ok := stringField(fields, "timestamp")
	if !ok {
		return Item{}, false
	}
	url, ok := stringField(fields, "url")
	if !ok {
		return Item{}, false
	}
	number, ok := numberField(fields, "number")
	if !ok {
		return Item{}, false
	}
	item := Item{
		Number:    number,
		URL:       url,
		Timestamp: timestamp,
	}
	item.Title, _ = stringField(fields, "title")
	item.Model, _ = stringField(fields, "model")
	item.Character, _ = stringField(fields, "character")
	item.CharacterName, _ = stringField(fields, "character_name")
	item.Inspiration, _ = stringField(fields, "inspiration")
	item.Status, _ = stringField(fields, "status")
	season, _ := stringField(fields, "season")
	item.Season = Season(season)
	item.IsSeasonal, _ = boolField(fields, "is_seasonal")
	return item, true
}

func stringField(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := fields[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func boolField(fields map[string]json.RawMessage, name string) (bool, bool) {
	raw, ok := fields[name]
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}

// numberField accepts integral JSON numbers and strings holding one. Null and
// fractional numbers are treated as missing: a cat without an integral number
// can not be looked up, linked to its likes or shown as #<n>.
func numberField(fields map[string]json.RawMessage, name string) (int, bool) {
	raw, ok := fields[name]
	if !ok {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if v, err := strconv.Atoi(n.String()); err == nil {
			return v, true
		}
		if f, err := n.Float64(); err == nil && f == float64(int(f)) {
			return int(f), true
		}
		return 0, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return v, true
}
