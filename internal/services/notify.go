package services

import "github.com/rs/zerolog"

// Severity grades a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notifier is the fire-and-forget sink for user-facing messages. The core
// returns structured results; binding them to a sink is the caller's thin
// adapter.
type Notifier interface {
	Notify(message string, severity Severity)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n *LogNotifier) Notify(message string, severity Severity) {
	switch severity {
	case SeverityError:
		n.Log.Error().Str("severity", string(severity)).Msg(message)
	default:
		n.Log.Info().Str("severity", string(severity)).Msg(message)
	}
}
