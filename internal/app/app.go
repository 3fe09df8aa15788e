// Package app wires configuration, storage and the chat surface together.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"golang.org/x/sync/errgroup"

	"github.com/agentic-research/faqtree/internal/archive"
	"github.com/agentic-research/faqtree/internal/chat"
	"github.com/agentic-research/faqtree/internal/config"
	"github.com/agentic-research/faqtree/internal/graph"
	"github.com/agentic-research/faqtree/internal/ingest"
	"github.com/agentic-research/faqtree/internal/journal"
	"github.com/agentic-research/faqtree/internal/menu"
	"github.com/agentic-research/faqtree/internal/updater"
)

// App holds the long-lived components of a running bot.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Store     *graph.Store
	Navigator *menu.Navigator
	Updater   *updater.Updater
	Chat      *chat.Server

	journal *journal.Journal
}

// New builds the component graph on the OS filesystem.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	return NewWithFS(cfg, logger, osfs.New(""))
}

// NewWithFS builds the component graph on fs. Paths in cfg are resolved by fs.
func NewWithFS(cfg *config.Config, logger *slog.Logger, fs billy.Filesystem) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
		Store:  graph.NewStore(nil),
	}

	var rec journal.Recorder = journal.Nop{}
	if cfg.Journal.Path != "" {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return nil, err
		}
		a.journal = j
		rec = j
	}

	admin := updater.LogNotifier{Logger: logger.With("component", "admin")}
	a.Updater = updater.New(cfg.Data.LivePath, ingest.Options{MaxDepth: cfg.Data.MaxDepth}, updater.Deps{
		FS:       fs,
		Store:    a.Store,
		Archiver: archive.New(fs, cfg.Data.BackupDir, cfg.Data.BackupRetention),
		Journal:  rec,
		Notifier: admin,
		Logger:   logger.With("component", "updater"),
	})

	a.Navigator = menu.NewNavigator(a.Store, menu.Labels{Back: cfg.Chat.BackLabel, Home: cfg.Chat.HomeLabel})

	var applier chat.Applier
	if cfg.Chat.AllowUpdates {
		applier = a.Updater
	}
	a.Chat = chat.New(cfg.Chat.Name, Version, a.Navigator, applier, chat.WithNotifier(admin))
	return a, nil
}

// Load reads the live file. A missing file is logged and the defaults stay
// active; an invalid one is reported and the defaults stay active too.
func (a *App) Load(ctx context.Context) {
	err := a.Updater.LoadFile(ctx)
	switch {
	case err == nil:
		st := a.Store.Snapshot().Stats()
		a.Logger.Info("data loaded", "path", a.Config.Data.LivePath,
			"categories", st.Categories, "questions", st.Questions)
	case errors.Is(err, updater.ErrNoData):
		a.Logger.Warn("no data file, serving defaults", "path", a.Config.Data.LivePath)
	default:
		a.Logger.Error("data file rejected, serving defaults", "error", err)
	}
}

// Run loads the data and serves MCP over in/out until ctx is done or in is
// closed. With data.watch set the live file is reloaded on change.
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	a.Logger.Info("starting faqtree",
		slog.String("version", BuildVersion()),
		slog.String("data", a.Config.Data.LivePath),
		slog.Bool("watch", a.Config.Data.Watch),
		slog.Bool("chat_updates", a.Config.Chat.AllowUpdates),
	)
	a.Load(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if a.Config.Data.Watch {
		g.Go(func() error {
			return a.Updater.Watch(gctx)
		})
	}
	g.Go(func() error {
		// The stdio session ending is a normal shutdown.
		defer cancel()
		if err := a.Chat.Serve(gctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("serve mcp: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// Close releases the journal.
func (a *App) Close() error {
	if a.journal == nil {
		return nil
	}
	return a.journal.Close()
}

// Journal returns the update journal, or nil when it is disabled.
func (a *App) Journal() *journal.Journal { return a.journal }
