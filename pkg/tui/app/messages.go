package app

import (
	"context"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/character"
	"tableflip.dev/catime/pkg/store"
)

type catalogLoadedMsg struct {
	items    []catalog.Item
	likes    catalog.Likes
	comments catalog.Comments
	err      error
	// reload is set for refreshes triggered by the file watcher.
	reload bool
}

type detailLoadedMsg struct {
	epoch  uint64
	detail catalog.Detail
}

type searchMsg struct {
	seq   int
	value string
}

type characterLoadedMsg struct {
	id   string
	page *character.Page
	err  error
}

type downloadMsg struct {
	item catalog.Item
	path string
	err  error
	// opened reports that the browser fallback was used.
	opened bool
}

type copiedMsg struct{ err error }

type browserMsg struct {
	url string
	err error
}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

type clearStatusMsg struct{ seq int }
