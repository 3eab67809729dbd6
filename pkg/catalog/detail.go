package catalog

import (
	"encoding/json"
)

// Detail carries the generation notes published per month for each cat.
type Detail struct {
	Number          int      `json:"number"`
	Prompt          string   `json:"prompt,omitempty"`
	Story           string   `json:"story,omitempty"`
	Idea            string   `json:"idea,omitempty"`
	NewsInspiration []string `json:"news_inspiration,omitempty"`
	AvoidList       []string `json:"avoid_list,omitempty"`
	Inspiration     string   `json:"inspiration,omitempty"`
}

// IsZero reports if the detail carries nothing, which is what lookups of
// unknown cats resolve to.
func (d Detail) IsZero() bool {
	return d.Number == 0 && d.Prompt == "" && d.Story == "" && d.Idea == "" &&
		len(d.NewsInspiration) == 0 && len(d.AvoidList) == 0 && d.Inspiration == ""
}

// IdeaText returns the idea with the inspiration source appended when the
// cat was inspired by news.
func (d Detail) IdeaText() string {
	if d.Inspiration != "" && d.Inspiration != Original {
		return d.Idea + "\n\n靈感來源：" + d.Inspiration
	}
	return d.Idea
}

// Tab identifies a lightbox section.
type Tab string

const (
	TabStory Tab = "story"
	TabIdea  Tab = "idea"
	TabNews  Tab = "news"
	TabAvoid Tab = "avoid"
)

// Label is the title shown on the tab bar.
func (t Tab) Label() string {
	switch t {
	case TabStory:
		return "Story"
	case TabIdea:
		return "Idea"
	case TabNews:
		return "News"
	case TabAvoid:
		return "Constraints"
	}
	return string(t)
}

// Tabs lists the sections that have content, in display order.
func (d Detail) Tabs() []Tab {
	var tabs []Tab
	if d.Story != "" {
		tabs = append(tabs, TabStory)
	}
	if d.Idea != "" {
		tabs = append(tabs, TabIdea)
	}
	if len(d.NewsInspiration) > 0 {
		tabs = append(tabs, TabNews)
	}
	if len(d.AvoidList) > 0 {
		tabs = append(tabs, TabAvoid)
	}
	return tabs
}

// ParseDetails decodes a month detail document. A payload that is not an
// array yields nil; malformed records are skipped.
func ParseDetails(data []byte) []Detail {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	out := make([]Detail, 0, len(raw))
	for _, elem := range raw {
		var d Detail
		if err := json.Unmarshal(elem, &d); err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}

// FindDetail returns the record for number, or an empty Detail.
func FindDetail(details []Detail, number int) Detail {
	for _, d := range details {
		if d.Number == number {
			return d
		}
	}
	return Detail{}
}
