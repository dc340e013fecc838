package push

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/brianyyz/ShareRidesV2Server/internal/models"
)

// Dispatcher resolves a target audience against the installations table and
// hands one message per device to the delivery channel. Failures after the
// primary mutation has committed are logged and captured, never surfaced.
type Dispatcher struct {
	db          *gorm.DB
	sender      Sender
	informAdmin bool
}

func NewDispatcher(db *gorm.DB, sender Sender, informAdmin bool) *Dispatcher {
	return &Dispatcher{db: db, sender: sender, informAdmin: informAdmin}
}

// Send fans the payload out to every installation the audience selects.
// The returned error reports resolution failure or the first publish
// failure; callers running post-commit treat it as log-only.
func (d *Dispatcher) Send(ctx context.Context, audience Audience, payload Payload) error {
	installations, err := d.resolve(ctx, audience)
	if err != nil {
		return fmt.Errorf("resolve push audience: %w", err)
	}

	var firstErr error
	data := payload.Data()
	for _, inst := range installations {
		msg := Message{
			DeviceToken: inst.DeviceToken,
			DeviceType:  inst.DeviceType,
			Data:        data,
			ExpireAt:    payload.ExpireAt,
		}
		if err := d.sender.Publish(ctx, msg); err != nil {
			slog.Error("push publish failed",
				"action", "push_publish",
				"device", inst.ID,
				"key", payload.Key,
				"error", err)
			sentry.CaptureException(err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// SendToAdmin pushes an operational alert to admin-channel subscribers.
// Gated by configuration; always best-effort.
func (d *Dispatcher) SendToAdmin(ctx context.Context, message string) {
	if !d.informAdmin {
		return
	}
	payload := Payload{Key: KeyAdmin, Alert: message, Badge: 1}
	if err := d.Send(ctx, ToChannel(models.ChannelAdmin), payload); err != nil {
		slog.Error("admin channel push failed", "action", "push_admin", "error", err)
	}
}

func (d *Dispatcher) resolve(ctx context.Context, audience Audience) ([]models.Installation, error) {
	query := d.db.WithContext(ctx).Model(&models.Installation{})

	if audience.Channel != "" {
		query = query.Where(datatypes.JSONArrayQuery("channels").Contains(audience.Channel))
	}
	if audience.UserID != nil {
		query = query.Where("user_id = ?", *audience.UserID)
	}
	if audience.ExcludeUserID != nil {
		query = query.Where("user_id IS NULL OR user_id <> ?", *audience.ExcludeUserID)
	}
	switch audience.TeamFilter {
	case TeamMatches:
		query = query.Where("team_id = ?", audience.TeamID)
	case TeamAbsent:
		query = query.Where("team_id IS NULL")
	}

	var installations []models.Installation
	if err := query.Find(&installations).Error; err != nil {
		return nil, err
	}
	return installations, nil
}
