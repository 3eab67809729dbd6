package get

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/printers"
)

func init() {
	color.NoColor = true
}

type fakeFeed struct{ detailErr error }

func (fakeFeed) WorkingSet(context.Context) ([]catalog.Item, error) {
	return []catalog.Item{
		{Number: 2, Title: "Nap", Timestamp: "2024-02-01 10:00", URL: "https://example.com/2.png"},
		{Number: 1, Title: "Yawn", Timestamp: "2024-01-01 10:00", URL: "https://example.com/1.png"},
	}, nil
}

func (f fakeFeed) Details(_ context.Context, group string) ([]catalog.Detail, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return []catalog.Detail{{Number: 2, Prompt: "a napping cat", Story: "Sun was warm."}}, nil
}

func (fakeFeed) Likes(context.Context) catalog.Likes { return catalog.Likes{"2": 7} }

func (fakeFeed) Comments(context.Context) catalog.Comments {
	return catalog.Comments{"2": "https://example.com/c/2"}
}

func TestGetText(t *testing.T) {
	var buf bytes.Buffer
	g := Get{Feed: fakeFeed{}, Number: 2, Out: &buf}
	require.NoError(t, g.Do(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "#2 Nap · 2024-02-01 10:00")
	assert.Contains(t, out, "♥ 7")
	assert.Contains(t, out, "https://example.com/c/2")
	assert.Contains(t, out, "a napping cat")
	assert.Contains(t, out, "Sun was warm.")
}

func TestGetYAML(t *testing.T) {
	var buf bytes.Buffer
	g := Get{Feed: fakeFeed{detailErr: errors.New("offline")}, Number: 2, Format: printers.FormatYAML, Out: &buf}
	require.NoError(t, g.Do(context.Background()))

	var res struct {
		Cat    catalog.Item    `yaml:"cat"`
		Detail *catalog.Detail `yaml:"detail"`
		Likes  int             `yaml:"likes"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &res))
	assert.Equal(t, 2, res.Cat.Number)
	assert.Equal(t, 7, res.Likes)
	assert.Nil(t, res.Detail, "a failed detail fetch only drops the detail")
}

func TestGetUnknownNumber(t *testing.T) {
	err := (&Get{Feed: fakeFeed{}, Number: 9}).Do(context.Background())
	assert.ErrorIs(t, err, ErrNoSuchCat)
	assert.Contains(t, err.Error(), "2 cats available")
}
