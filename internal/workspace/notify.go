package workspace

import "log/slog"

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notifier is the fire-and-forget sink for user-visible messages.
type Notifier interface {
	Notify(message string, level Level)
}

type NotifierFunc func(message string, level Level)

func (f NotifierFunc) Notify(message string, level Level) { f(message, level) }

// LogNotifier writes notifications to a structured logger. Errors log at warn.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(message string, level Level) {
	log := n.Logger
	if log == nil {
		log = slog.Default()
	}
	switch level {
	case LevelError:
		log.Warn(message, "level", string(level))
	default:
		log.Info(message, "level", string(level))
	}
}

type discardNotifier struct{}

func (discardNotifier) Notify(string, Level) {}
