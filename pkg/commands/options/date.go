package options

import (
	"fmt"
	"time"
)

const (
	layoutISO      = "2006-1-2"
	layoutMonth    = "2006-1"
	layoutISOShort = "1/2"
	layoutDate     = "2006-01-02"
	layoutYM       = "2006-01"
)

// ParseDate accepts "2024-2-28", "2024-02" or "2/28" and returns the
// "YYYY-MM-DD" or "YYYY-MM" prefix cat timestamps start with.
func ParseDate(s string) (string, error) {
	return parseDate(s, time.Now())
}

func parseDate(s string, now time.Time) (string, error) {
	if t, err := time.Parse(layoutISO, s); err == nil {
		return t.Format(layoutDate), nil
	}
	if t, err := time.Parse(layoutMonth, s); err == nil {
		return t.Format(layoutYM), nil
	}
	short, err := time.Parse(layoutISOShort, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD, YYYY-MM or M/D", s)
	}
	// There are no cats from the future: pick the latest year, up to now,
	// in which the day exists. 2/29 walks back to a leap year.
	month, day := short.Month(), short.Day()
	for year := now.Year(); year > now.Year()-8; year-- {
		t := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
		if t.Month() != month || t.Day() != day || t.After(now) {
			continue
		}
		return t.Format(layoutDate), nil
	}
	return "", fmt.Errorf("invalid date %q", s)
}
