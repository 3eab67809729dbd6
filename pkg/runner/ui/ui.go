package ui

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"tableflip.dev/catime/pkg/store"
	"tableflip.dev/catime/pkg/tui/app"
	"tableflip.dev/catime/pkg/tui/theme"
)

// ErrNotTerminal is returned when stdout is not a terminal.
var ErrNotTerminal = errors.New("catime ui needs an interactive terminal; try 'catime list'")

// Prefs stores the theme preference between runs.
type Prefs interface {
	Theme() string
	SetTheme(name string) error
}

// UI launches the terminal gallery.
type UI struct {
	Config *store.Config
	Feed   app.Feed
	Prefs  Prefs
	Log    *zap.Logger

	// Detect reports the terminal background; nil uses theme.Detect.
	Detect func() string
	// IsTerminal reports if fd is a terminal; nil uses go-isatty.
	IsTerminal func(fd uintptr) bool
	// Run starts the program; nil uses app.Run.
	Run func(ctx context.Context, opts app.Options) error
}

func (d *UI) Do(ctx context.Context) error {
	if d.Config == nil {
		return errors.New("can not start ui, no config")
	}
	if d.Feed == nil {
		return errors.New("can not start ui, no feed")
	}
	isTerminal := d.IsTerminal
	if isTerminal == nil {
		isTerminal = terminal
	}
	if !isTerminal(os.Stdout.Fd()) {
		return ErrNotTerminal
	}
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	opts, err := d.options(log)
	if err != nil {
		return err
	}
	run := d.Run
	if run == nil {
		run = app.Run
	}
	log.Info("starting gallery", zap.String("theme", opts.Theme.Name), zap.Bool("watch", opts.Watch != nil))
	return run(ctx, opts)
}

func (d *UI) options(log *zap.Logger) (app.Options, error) {
	detect := d.Detect
	if detect == nil {
		detect = theme.Detect
	}
	saved := ""
	opts := app.Options{
		Feed:        d.Feed,
		PageSize:    d.Config.PageSize,
		DownloadDir: d.Config.DownloadDir,
		Log:         log,
		Rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if d.Prefs != nil {
		saved = d.Prefs.Theme()
		opts.Prefs = d.Prefs
	}
	opts.Theme = theme.ByName(theme.Resolve(saved, d.Config.Theme, detect))

	if local := d.Config.LocalCatalog; local != "" {
		if _, err := os.Stat(local); err != nil {
			return app.Options{}, err
		}
		opts.Watch = func(ctx context.Context) (<-chan store.Event, error) {
			return store.WatchFile(ctx, local, log.Named("watch"))
		}
	}
	return opts, nil
}

func terminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
