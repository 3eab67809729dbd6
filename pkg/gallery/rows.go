package gallery

import "tableflip.dev/catime/pkg/catalog"

// RowKind distinguishes month separators from cards.
type RowKind int

const (
	RowSeparator RowKind = iota
	RowCard
)

// Row is one entry of the rendered sequence.
type Row struct {
	Kind  RowKind
	Group string
	// Index is the position of the card in the filtered subset; -1 for
	// separators.
	Index int
	Item  catalog.Item
}

// Rows is a Sink that records the rendered sequence in memory.
type Rows struct {
	rows []Row
}

// Reset implements Sink.
func (r *Rows) Reset() { r.rows = r.rows[:0] }

// Separator implements Sink.
func (r *Rows) Separator(group string) {
	r.rows = append(r.rows, Row{Kind: RowSeparator, Group: group, Index: -1})
}

// Card implements Sink.
func (r *Rows) Card(index int, item catalog.Item) {
	r.rows = append(r.rows, Row{Kind: RowCard, Group: item.Group(), Index: index, Item: item})
}

// All returns the recorded rows. The slice is shared; callers must not
// modify it.
func (r *Rows) All() []Row { return r.rows }

// Len is the number of recorded rows.
func (r *Rows) Len() int { return len(r.rows) }

// RowOfIndex returns the row position of the card at filtered index idx, or
// -1 when it is not rendered.
func (r *Rows) RowOfIndex(idx int) int {
	for pos, row := range r.rows {
		if row.Kind == RowCard && row.Index == idx {
			return pos
		}
	}
	return -1
}

// RowOfGroup returns the row position of the separator for group, or -1.
func (r *Rows) RowOfGroup(group string) int {
	for pos, row := range r.rows {
		if row.Kind == RowSeparator && row.Group == group {
			return pos
		}
	}
	return -1
}
