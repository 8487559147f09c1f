// internal/notify/notifier.go
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notifier delivers out-of-band messages (OTP codes, receipts) to a user.
// Actual delivery transports (SMTP, SMS) live behind this interface and out
// of the ledger's scope.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogNotifier writes notifications to the application log instead of
// delivering them. It is the default wiring for local runs, mirroring a
// console fallback when no mail transport is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the notification.
func (n *LogNotifier) Send(ctx context.Context, to, subject, body string) error {
	n.logger.Info("notification",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
