package app

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Home      key.Binding
	End       key.Binding
	Open      key.Binding
	Search    key.Binding
	Model     key.Binding
	Character key.Binding
	Insp      key.Binding
	Dates     key.Binding
	Timeline  key.Binding
	Random    key.Binding
	Clear     key.Binding
	Theme     key.Binding

	Close    key.Binding
	Prev     key.Binding
	Next     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Copy     key.Binding
	Comments key.Binding
	Save     key.Binding
	Profile  key.Binding

	PrevMonth key.Binding
	NextMonth key.Binding
	Select    key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PageUp:    key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:  key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Home:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
	End:       key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Model:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "model")),
	Character: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "character")),
	Insp:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inspiration")),
	Dates:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "date")),
	Timeline:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "timeline")),
	Random:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "random cat")),
	Clear:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filters")),
	Theme:     key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "theme")),

	Close:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "close")),
	Prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev")),
	Next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next")),
	NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
	PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
	Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy prompt")),
	Comments: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "comments")),
	Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "download")),
	Profile:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "character page")),

	PrevMonth: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev month")),
	NextMonth: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next month")),
	Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
}

// gridHelp implements help.KeyMap for the card list.
type gridHelp struct{}

func (gridHelp) ShortHelp() []key.Binding {
	return []key.Binding{keys.Open, keys.Search, keys.Dates, keys.Timeline, keys.Random, keys.Help, keys.Quit}
}

func (gridHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Up, keys.Down, keys.PageUp, keys.PageDown, keys.Home, keys.End},
		{keys.Open, keys.Search, keys.Model, keys.Character, keys.Insp, keys.Clear},
		{keys.Dates, keys.Timeline, keys.Random, keys.Theme, keys.Help, keys.Quit},
		{keys.Prev, keys.Next, keys.NextTab, keys.Copy, keys.Comments, keys.Save, keys.Profile, keys.Close},
	}
}

// lightboxHelp implements help.KeyMap for the detail overlay.
type lightboxHelp struct{}

func (lightboxHelp) ShortHelp() []key.Binding {
	return []key.Binding{keys.Prev, keys.Next, keys.NextTab, keys.Copy, keys.Save, keys.Comments, keys.Profile, keys.Close}
}

func (lightboxHelp) FullHelp() [][]key.Binding { return [][]key.Binding{lightboxHelp{}.ShortHelp()} }

// pickerHelp implements help.KeyMap for the date picker.
type pickerHelp struct{}

func (pickerHelp) ShortHelp() []key.Binding {
	return []key.Binding{keys.PrevMonth, keys.NextMonth, keys.Select, keys.Clear, keys.Close}
}

func (pickerHelp) FullHelp() [][]key.Binding { return [][]key.Binding{pickerHelp{}.ShortHelp()} }
