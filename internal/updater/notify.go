package updater

import (
	"context"
	"log/slog"

	"github.com/agentic-research/faqtree/internal/graph"
)

// EventKind names an administrator notification.
type EventKind string

const (
	EventStartup        EventKind = "startup"
	EventDataMissing    EventKind = "data-missing"
	EventUpdateRejected EventKind = "update-rejected"
	EventUpdateApplied  EventKind = "update-applied"
	EventHandlerError   EventKind = "handler-error"
)

// Event is sent to the administrator when the data changes or cannot be
// loaded.
type Event struct {
	Kind   EventKind
	Source string
	Detail string
	Stats  graph.Stats
}

// Notifier delivers events to whoever administers the bot.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// LogNotifier writes events as structured log records.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, ev Event) {
	level := slog.LevelInfo
	switch ev.Kind {
	case EventUpdateRejected, EventHandlerError:
		level = slog.LevelError
	case EventDataMissing:
		level = slog.LevelWarn
	}
	n.Logger.Log(ctx, level, "admin notification",
		slog.String("event", string(ev.Kind)),
		slog.String("source", ev.Source),
		slog.String("detail", ev.Detail),
		slog.Int("categories", ev.Stats.Categories),
		slog.Int("questions", ev.Stats.Questions),
	)
}
