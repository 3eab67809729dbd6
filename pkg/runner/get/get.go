package get

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/printers"
)

// ErrNoSuchCat is returned for numbers outside the working set.
var ErrNoSuchCat = errors.New("no such cat")

// Feed is the part of the feed client Get reads.
type Feed interface {
	WorkingSet(ctx context.Context) ([]catalog.Item, error)
	Details(ctx context.Context, group string) ([]catalog.Detail, error)
	Likes(ctx context.Context) catalog.Likes
	Comments(ctx context.Context) catalog.Comments
}

// Get shows one cat together with its detail record.
type Get struct {
	Feed   Feed
	Number int
	Format printers.Format
	Out    io.Writer
}

// Result is the machine readable cat.
type Result struct {
	Cat        catalog.Item    `json:"cat" yaml:"cat"`
	Detail     *catalog.Detail `json:"detail,omitempty" yaml:"detail,omitempty"`
	Likes      int             `json:"likes" yaml:"likes"`
	CommentURL string          `json:"comment_url,omitempty" yaml:"comment_url,omitempty"`
}

func (n *Get) Do(ctx context.Context) error {
	if n.Feed == nil {
		return errors.New("can not get, no feed")
	}
	items, err := n.Feed.WorkingSet(ctx)
	if err != nil {
		return err
	}
	item, ok := catalog.Find(items, n.Number)
	if !ok {
		return fmt.Errorf("%w: #%d (%d cats available)", ErrNoSuchCat, n.Number, len(items))
	}

	// a missing detail document only hides the prompt and the tabs
	var detail catalog.Detail
	if details, err := n.Feed.Details(ctx, item.Group()); err == nil {
		detail = catalog.FindDetail(details, item.Number)
	}
	res := Result{
		Cat:        item,
		Likes:      n.Feed.Likes(ctx).Count(item),
		CommentURL: n.Feed.Comments(ctx).URL(item),
	}
	if !detail.IsZero() {
		res.Detail = &detail
	}

	if n.Format != printers.FormatText {
		return printers.Encode(n.Out, n.Format, res)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Cat(item, detail, res.Likes, res.CommentURL)
	return nil
}
