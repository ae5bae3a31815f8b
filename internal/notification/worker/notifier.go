package worker

import (
	"context"
	"log/slog"
)

// Notifier delivers a message to a user. The shipping implementation writes
// to the log; an email or push channel can drop in behind the same interface.
type Notifier interface {
	Notify(ctx context.Context, userID int64, subject, body string) error
}

type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, userID int64, subject, body string) error {
	n.log.Info("notification sent", "user_id", userID, "subject", subject, "body", body)
	return nil
}
