package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/catime/pkg/catalog"
)

// Calendar prints the month of on, highlighting days that have cats.
func (pp *PrettyPrint) Calendar(on time.Time, items ...catalog.Item) {
	then := time.Date(on.Year(), on.Month(), 1, 1, 0, 0, 0, time.UTC)
	days := DaysIn(then)

	count := make([]int, days)
	prefix := then.Format("2006-01-")
	for _, item := range items {
		if !strings.HasPrefix(item.Timestamp, prefix) {
			continue
		}
		var day int
		if _, err := fmt.Sscanf(item.Timestamp[len(prefix):], "%2d", &day); err == nil && day >= 1 && day <= days {
			count[day-1]++
		}
	}
	pp.PrintMonthCount(then, count)
}

const width = len("11 12 13 14 15 16 17") // an example week

// PrintMonthCount prints a month grid; days with a non-zero count are bold.
func (pp *PrettyPrint) PrintMonthCount(then time.Time, count []int) {
	out := pp.out()
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := then.Format("January 2006")
	mid := (width - len(m)) / 2
	if mid < 0 {
		mid = 0
	}
	_, _ = tf.Fprintf(out, "%s%s\n", strings.Repeat(" ", mid), m)

	days := DaysIn(then)

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(out, "   ")
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)

	for i := 0; i < days; i++ {
		if i < len(count) && count[i] > 0 {
			_, _ = l2.Fprintf(out, "%2d ", i+1)
		} else {
			_, _ = l1.Fprintf(out, "%2d ", i+1)
		}

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(out, "\n")
		}
	}
	_, _ = fmt.Fprint(out, "\n\n")
}

func NextMonth(then time.Time) time.Time {
	return time.Date(then.Year(), then.Month()+1, 1, 1, 0, 0, 0, then.Location())
}

func PrevMonth(then time.Time) time.Time {
	return time.Date(then.Year(), then.Month()-1, 1, 1, 0, 0, 0, then.Location())
}

func DaysIn(then time.Time) int {
	return time.Date(then.UTC().Year(), then.UTC().Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.UTC().Year(), then.UTC().Month(), 1, 1, 0, 0, 0, time.UTC).Weekday()
}
