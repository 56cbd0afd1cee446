// Package notify broadcasts refresh-cycle summaries to listening
// consumers. Delivery is best effort; a failed notification never fails
// the cycle that produced it.
package notify

import (
	"context"
	"time"

	"newspulse/internal/logger"
)

// Event is one completed refresh cycle.
type Event struct {
	AcceptedCount int       `json:"accepted_count"`
	CompletedAt   time.Time `json:"completed_at"`
}

type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// LogNotifier writes the cycle summary to the log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, ev Event) error {
	logger.Info("refresh cycle completed", "accepted", ev.AcceptedCount, "completed_at", ev.CompletedAt.Format(time.RFC3339))
	return nil
}

// Multi fans one event out to several notifiers. Each notifier's error
// is logged and swallowed.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev Event) error {
	for _, n := range m {
		if err := n.Notify(ctx, ev); err != nil {
			logger.Warn("notification failed", "error", err)
		}
	}
	return nil
}
