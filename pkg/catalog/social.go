package catalog

import "encoding/json"

// Likes maps a cat number (decimal string) to its like count.
type Likes map[string]int

// Count returns the likes for item, zero when unknown.
func (l Likes) Count(item Item) int {
	if l == nil {
		return 0
	}
	return l[item.Key()]
}

// Comments maps a cat number (decimal string) to the discussion URL.
type Comments map[string]string

// URL returns the comment link for item, "" when there is none.
func (c Comments) URL(item Item) string {
	if c == nil {
		return ""
	}
	return c[item.Key()]
}

// ParseLikes decodes the likes map. Anything other than a JSON object yields
// an empty map; entries with non-integer counts are skipped.
func ParseLikes(data []byte) Likes {
	fields, ok := decodeObject(data)
	if !ok {
		return Likes{}
	}
	out := make(Likes, len(fields))
	for k, raw := range fields {
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			continue
		}
		out[k] = n
	}
	return out
}

// ParseComments decodes the comment link map with the same degradation rules
// as ParseLikes.
func ParseComments(data []byte) Comments {
	fields, ok := decodeObject(data)
	if !ok {
		return Comments{}
	}
	out := make(Comments, len(fields))
	for k, raw := range fields {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			continue
		}
		out[k] = s
	}
	return out
}

func decodeObject(data []byte) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}
