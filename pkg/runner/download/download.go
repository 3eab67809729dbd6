package download

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/feed"
)

// Feed is the part of the feed client Download uses.
type Feed interface {
	WorkingSet(ctx context.Context) ([]catalog.Item, error)
	feed.ImageFetcher
}

// Download saves the image of one cat. When the image can not be fetched the
// image URL is opened in the browser instead.
type Download struct {
	Feed    Feed
	Number  int
	Dir     string
	OpenURL func(url string) error
	Out     io.Writer
	Log     *zap.Logger
}

func (n *Download) Do(ctx context.Context) error {
	if n.Feed == nil {
		return errors.New("can not download, no feed")
	}
	log := n.Log
	if log == nil {
		log = zap.NewNop()
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	items, err := n.Feed.WorkingSet(ctx)
	if err != nil {
		return err
	}
	item, ok := catalog.Find(items, n.Number)
	if !ok {
		return fmt.Errorf("no such cat: #%d", n.Number)
	}

	path, err := feed.Download(ctx, n.Feed, item, n.Dir)
	if err == nil {
		log.Info("cat downloaded", zap.Int("number", item.Number), zap.String("path", path))
		_, _ = fmt.Fprintln(out, "Saved", path)
		return nil
	}
	log.Warn("download failed", zap.Int("number", item.Number), zap.Error(err))
	if n.OpenURL == nil || item.URL == "" {
		return err
	}
	if openErr := n.OpenURL(item.URL); openErr != nil {
		return fmt.Errorf("%w; opening %s: %v", err, item.URL, openErr)
	}
	_, _ = fmt.Fprintln(out, "Download failed, opened", item.URL)
	return nil
}
