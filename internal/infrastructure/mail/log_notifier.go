package mail

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes messages to the log instead of sending them.
// It stands in for SMTP when no mail host is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the message
func (n *LogNotifier) Send(_ context.Context, to, title, htmlBody string) error {
	if to == "" {
		return ErrNoRecipient
	}
	n.logger.Info("Mail not sent, no SMTP host configured",
		zap.String("to", to),
		zap.String("subject", title),
		zap.Int("body_bytes", len(htmlBody)),
	)
	return nil
}
