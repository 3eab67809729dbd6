package gallery

import (
	"sort"
	"strings"

	"tableflip.dev/catime/pkg/catalog"
)

// Year groups the months of one year that have cats.
type Year struct {
	Year string
	// Months holds "YYYY-MM" keys, newest first.
	Months []string
}

// Timeline lists years newest first, each with its months newest first.
func Timeline(items []catalog.Item) []Year {
	byYear := make(map[string]map[string]struct{})
	for _, item := range items {
		date := item.Date()
		parts := strings.SplitN(date, "-", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		y, m := parts[0], parts[1]
		if byYear[y] == nil {
			byYear[y] = make(map[string]struct{})
		}
		byYear[y][m] = struct{}{}
	}

	years := make([]string, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))

	out := make([]Year, 0, len(years))
	for _, y := range years {
		months := make([]string, 0, len(byYear[y]))
		for m := range byYear[y] {
			months = append(months, y+"-"+m)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(months)))
		out = append(out, Year{Year: y, Months: months})
	}
	return out
}

// Dates returns the set of "YYYY-MM-DD" days that have at least one cat.
func Dates(items []catalog.Item) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, item := range items {
		if d := item.Date(); d != "" {
			out[d] = true
		}
	}
	return out
}

// Models returns the sorted distinct non-empty model names.
func Models(items []catalog.Item) []string {
	return distinct(items, func(i catalog.Item) string { return i.Model })
}

// Characters returns the sorted distinct non-empty character names.
func Characters(items []catalog.Item) []string {
	return distinct(items, func(i catalog.Item) string { return i.CharacterName })
}

func distinct(items []catalog.Item, key func(catalog.Item) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, item := range items {
		k := key(item)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MonthCounts returns the number of cats in each "YYYY-MM" group.
func MonthCounts(items []catalog.Item) map[string]int {
	out := make(map[string]int)
	for _, item := range items {
		out[item.Group()]++
	}
	return out
}
