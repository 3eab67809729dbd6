package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/gallery"
)

// PrettyPrint renders cats for humans.
type PrettyPrint struct {
	// Out defaults to color.Output.
	Out io.Writer
	// Width wraps long text; zero means 80.
	Width int
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) width() int {
	if pp.Width <= 0 {
		return 80
	}
	return pp.Width
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " cat")
	default:
		_, _ = c.Fprintln(pp.out(), " cats")
	}
}

// Cats prints a table of cats, one row per cat, with a month heading each
// time the group changes.
func (pp *PrettyPrint) Cats(items ...catalog.Item) {
	if len(items) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	y := color.New(color.FgHiYellow)
	faint := color.New(color.Faint)
	sep := color.New(color.Bold, color.FgCyan)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = uint(pp.width() / 2)
	group := ""
	for _, item := range items {
		if g := item.Group(); g != group {
			group = g
			tbl.AddRow(sep.Sprint(g))
		}
		tbl.AddRow(
			y.Sprintf("#%d", item.Number),
			faint.Sprint(item.Timestamp),
			truncate.StringWithTail(item.Title, uint(pp.width()/3), "…"),
			tagLine(item),
		)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Cat prints one cat with its detail, likes and comment link.
func (pp *PrettyPrint) Cat(item catalog.Item, detail catalog.Detail, likes int, comment string) {
	out := pp.out()
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	head := color.New(color.Bold, color.Underline)

	title := fmt.Sprintf("#%d", item.Number)
	if item.Title != "" {
		title += " " + item.Title
	}
	_, _ = bold.Fprintf(out, "%s", title)
	_, _ = faint.Fprintf(out, " · %s\n", item.Timestamp)
	if tags := tagLine(item); tags != "" {
		_, _ = fmt.Fprintln(out, tags)
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(faint.Sprint("url"), item.URL)
	if likes > 0 {
		tbl.AddRow(faint.Sprint("likes"), fmt.Sprintf("♥ %d", likes))
	}
	if comment != "" {
		tbl.AddRow(faint.Sprint("comments"), comment)
	}
	_, _ = fmt.Fprintln(out, tbl)

	if detail.Prompt != "" {
		_, _ = head.Fprintln(out, "\nPrompt")
		_, _ = fmt.Fprintln(out, wordwrap.String(detail.Prompt, pp.width()))
	}
	for _, tab := range detail.Tabs() {
		_, _ = head.Fprintln(out, "\n"+tab.Label())
		_, _ = fmt.Fprintln(out, wordwrap.String(TabText(detail, tab), pp.width()))
	}
	_, _ = fmt.Fprintln(out, "")
}

// Months prints the timeline with the number of cats per month.
func (pp *PrettyPrint) Months(items []catalog.Item) {
	counts := gallery.MonthCounts(items)
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, year := range gallery.Timeline(items) {
		tbl.AddRow(bold.Sprint(year.Year))
		for _, month := range year.Months {
			tbl.AddRow("", month, faint.Sprintf("%d", counts[month]))
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Summary prints the count and the newest cat.
func (pp *PrettyPrint) Summary(items []catalog.Item) {
	out := pp.out()
	if len(items) == 0 {
		_, _ = fmt.Fprintln(out, "No cats yet! Check back in an hour.")
		return
	}
	latest := items[0]
	_, _ = fmt.Fprintf(out, "Total cats: %d\n", len(items))
	_, _ = fmt.Fprintf(out, "Latest: #%d  %s  %s\n", latest.Number, latest.Timestamp, latest.URL)
	_, _ = color.New(color.Faint).Fprintln(out, "Use 'catime get <number>' to view, or 'catime list' to list.")
}

// TabText is the body of a lightbox section.
func TabText(d catalog.Detail, tab catalog.Tab) string {
	switch tab {
	case catalog.TabStory:
		return d.Story
	case catalog.TabIdea:
		return d.IdeaText()
	case catalog.TabNews:
		return bullets(d.NewsInspiration)
	case catalog.TabAvoid:
		return bullets(d.AvoidList)
	}
	return ""
}

func bullets(lines []string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "• " + l
	}
	return strings.Join(out, "\n")
}

func tagLine(item catalog.Item) string {
	var tags []string
	if tag := item.CharacterTag(); tag != "" {
		tags = append(tags, color.New(color.FgMagenta).Sprint(tag))
	}
	if label := item.InspirationLabel(); label != "" {
		tags = append(tags, color.New(color.FgGreen).Sprint(label))
	}
	if item.Model != "" {
		tags = append(tags, color.New(color.FgBlue).Sprint(item.Model))
	}
	return strings.Join(tags, " ")
}
