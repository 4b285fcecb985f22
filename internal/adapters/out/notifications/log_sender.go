package notifications

import (
	"context"
	"log/slog"

	"bagpub/internal/core/ports"
)

// LogSender writes notifications to the log instead of a broker.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "notification_log_sender")}
}

func (s *LogSender) Send(ctx context.Context, n ports.Notification) error {
	s.logger.InfoContext(ctx, "Notification",
		"template", n.Template,
		"recipients", n.Recipients,
		"context", n.Context,
	)
	return nil
}
