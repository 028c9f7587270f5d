package notify

import (
	"context"
	"log/slog"
	"time"
)

// EventType represents the type of release event.
type EventType string

// Event type constants.
const (
	EventReleasePublished EventType = "release_published"
	EventReleaseFailed    EventType = "release_failed"
)

// Event describes a release event for notification.
type Event struct {
	Type      EventType `json:"type"`
	Version   string    `json:"version"`
	Tag       string    `json:"tag"`
	Commit    string    `json:"commit,omitempty"`
	Message   string    `json:"message"`
	Artifacts []string  `json:"artifacts,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier sends notifications about release events.
type Notifier interface {
	// Notify sends a notification. Implementations should handle
	// errors gracefully; a lost notification never aborts a release.
	Notify(ctx context.Context, event Event) error
}

// LogNotifier logs notifications using slog.
type LogNotifier struct {
	Logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs to the given logger.
// If logger is nil, uses the default slog logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{Logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, event Event) error {
	level := slog.LevelInfo
	if event.Type == EventReleaseFailed {
		level = slog.LevelError
	}

	n.Logger.Log(ctx, level, event.Message,
		"type", event.Type,
		"version", event.Version,
		"tag", event.Tag,
		"artifacts", event.Artifacts,
	)
	return nil
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(context.Context, Event) error { return nil }
