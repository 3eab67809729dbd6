package character

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/character"
	"tableflip.dev/catime/pkg/feed"
	"tableflip.dev/catime/pkg/printers"
)

type fakeFeed struct{}

func (fakeFeed) Character(_ context.Context, id string) ([]byte, error) {
	if id != "mochi" {
		return nil, fmt.Errorf("%w: %s", feed.ErrNotFound, id)
	}
	return []byte(`{"id":"mochi","name":{"en":"Mochi"},"personality":{"traits":["sleepy"]},"story_context":"Lives on a <b>windowsill</b>."}`), nil
}

func (fakeFeed) Catalog(context.Context) ([]catalog.Item, error) {
	return []catalog.Item{{Number: 4, Character: "mochi", Timestamp: "2024-02-01 10:00"}}, nil
}

func TestCharacterPlain(t *testing.T) {
	var buf bytes.Buffer
	c := Character{Feed: fakeFeed{}, ID: "mochi", Style: "notty", Out: &buf}
	require.NoError(t, c.Do(context.Background()))
	out := buf.String()
	assert.Contains(t, out, "Mochi")
	assert.Contains(t, out, "sleepy")
	assert.Contains(t, out, "windowsill")
	assert.NotContains(t, out, "<b>")
}

func TestCharacterRendered(t *testing.T) {
	var buf bytes.Buffer
	c := Character{Feed: fakeFeed{}, ID: "mochi", Style: "dark", Width: 60, Out: &buf}
	require.NoError(t, c.Do(context.Background()))
	assert.Contains(t, buf.String(), "Mochi")
}

func TestCharacterJSON(t *testing.T) {
	var buf bytes.Buffer
	c := Character{Feed: fakeFeed{}, ID: "mochi", Format: printers.FormatJSON, Out: &buf}
	require.NoError(t, c.Do(context.Background()))

	var page character.Page
	require.NoError(t, json.Unmarshal(buf.Bytes(), &page))
	assert.Equal(t, "mochi", page.Profile.ID)
	require.Len(t, page.Gallery, 1)
	assert.Equal(t, 4, page.Gallery[0].Number)
}

func TestCharacterNotFound(t *testing.T) {
	err := (&Character{Feed: fakeFeed{}, ID: "ghost"}).Do(context.Background())
	assert.ErrorIs(t, err, character.ErrNotFound)
}
