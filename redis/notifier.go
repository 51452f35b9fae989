package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SharedCode/guardian"
)

// AlertChannel is the pub/sub channel high-severity alerts are published to.
const AlertChannel = "guardian:alerts"

// Alert is the payload published per notification. Subscribers (push
// gateways, dashboards) fan it out to the parent.
type Alert struct {
	ParentID  string    `json:"parentId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type notifier struct {
	conn    *Connection
	channel string
}

// NewNotifier returns a guardian.Notifier that publishes alerts on the
// AlertChannel of the singleton connection. Delivery is fire and forget:
// whether anyone is subscribed is not this notifier's concern.
func NewNotifier() guardian.Notifier {
	return &notifier{
		conn:    connection,
		channel: AlertChannel,
	}
}

func (n *notifier) Notify(ctx context.Context, parentID string, message string) error {
	if n.conn == nil {
		return fmt.Errorf("Redis connection is not open, 'can't create new client")
	}
	ba, err := json.Marshal(Alert{
		ParentID:  parentID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return n.conn.Client.Publish(ctx, n.channel, ba).Err()
}
