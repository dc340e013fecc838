package push

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Message is one notification addressed to a single device, as published to
// the delivery channel.
type Message struct {
	DeviceToken string                 `json:"deviceToken"`
	DeviceType  string                 `json:"deviceType"`
	Data        map[string]interface{} `json:"data"`
	ExpireAt    *time.Time             `json:"expireAt,omitempty"`
}

// Sender hands a message to the delivery channel. Delivery itself (APNs
// bridging, retry) is the platform's concern, not ours.
type Sender interface {
	Publish(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of a broker. Used in
// development and whenever AMQP is not configured.
type LogSender struct{}

func (LogSender) Publish(_ context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	slog.Info("push message (log sender)", "message", string(body))
	return nil
}
