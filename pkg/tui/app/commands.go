package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/character"
	"tableflip.dev/catime/pkg/feed"
	"tableflip.dev/catime/pkg/gallery"
	"tableflip.dev/catime/pkg/store"
)

// loadCatalogCmd fetches the working set and the social maps together. Only
// the working set can fail the load; the social maps degrade to empty.
func loadCatalogCmd(ctx context.Context, f Feed, reload bool) tea.Cmd {
	return func() tea.Msg {
		msg := catalogLoadedMsg{reload: reload}
		if f == nil {
			msg.items = []catalog.Item{}
			return msg
		}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			items, err := f.WorkingSet(gctx)
			msg.items = items
			return err
		})
		g.Go(func() error {
			msg.likes = f.Likes(gctx)
			return nil
		})
		g.Go(func() error {
			msg.comments = f.Comments(gctx)
			return nil
		})
		msg.err = g.Wait()
		return msg
	}
}

func fetchDetailCmd(ctx context.Context, cache *gallery.DetailCache, sel gallery.Selection) tea.Cmd {
	return func() tea.Msg {
		return detailLoadedMsg{epoch: sel.Epoch, detail: cache.Get(ctx, sel.Item)}
	}
}

func loadCharacterCmd(ctx context.Context, f character.Fetcher, id string, log *zap.Logger) tea.Cmd {
	return func() tea.Msg {
		page, err := character.Load(ctx, f, id, log)
		return characterLoadedMsg{id: id, page: page, err: err}
	}
}

func startWatchCmd(parent context.Context, watch func(ctx context.Context) (<-chan store.Event, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

// downloadCmd saves the image of item into dir; when that fails the image
// URL is opened in the browser instead.
func downloadCmd(ctx context.Context, f feed.ImageFetcher, item catalog.Item, dir string, open func(string) error) tea.Cmd {
	return func() tea.Msg {
		path, err := feed.Download(ctx, f, item, dir)
		if err == nil {
			return downloadMsg{item: item, path: path}
		}
		if item.URL != "" && open(item.URL) == nil {
			return downloadMsg{item: item, err: err, opened: true}
		}
		return downloadMsg{item: item, err: err}
	}
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: write(text)}
	}
}

func openURLCmd(open func(string) error, url string) tea.Cmd {
	return func() tea.Msg {
		return browserMsg{url: url, err: open(url)}
	}
}
