package guardian

import (
	"context"
	log "log/slog"
)

// LogNotifier is the default Notifier. It only logs the alert, a placeholder
// until a push/SMS channel is wired in. The redis package has a pub/sub
// backed alternative.
type LogNotifier struct{}

func NewLogNotifier() Notifier {
	return LogNotifier{}
}

func (LogNotifier) Notify(ctx context.Context, parentID string, message string) error {
	log.Info("parent notification", "parentId", parentID, "message", message)
	return nil
}
