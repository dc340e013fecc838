package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification channels the workflows address. Ride change and cancel
// alerts go to the requesters by user identity, not by channel, so those
// need no named channel here.
const (
	ChannelAdmin         = "admin"
	ChannelNewRide       = "newRide"
	ChannelSilentContent = "silentContent"
	ChannelSomeoneShares = "someoneShares"
	ChannelUserMessages  = "userMessages"
)

// Installation is one client device registration. A user may hold several;
// pushes always fan out across all installations owned by the target user.
type Installation struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DeviceToken string         `gorm:"size:255;not null;uniqueIndex" json:"deviceToken"`
	DeviceType  string         `gorm:"size:20;default:'ios'" json:"deviceType"`
	UserID      *uuid.UUID     `gorm:"type:uuid;index" json:"userId"`
	TeamID      *uuid.UUID     `gorm:"type:uuid;index" json:"teamId"`
	Channels    datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"channels"`
	Badge       int            `gorm:"default:0" json:"badge"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// ChannelList decodes the channels column. A broken column decodes empty
// rather than failing the caller.
func (i *Installation) ChannelList() []string {
	var channels []string
	if len(i.Channels) == 0 {
		return channels
	}
	_ = json.Unmarshal(i.Channels, &channels)
	return channels
}

// AddChannel appends a channel if not already subscribed. Reports whether
// the list changed.
func (i *Installation) AddChannel(channel string) bool {
	channels := i.ChannelList()
	for _, c := range channels {
		if c == channel {
			return false
		}
	}
	channels = append(channels, channel)
	raw, err := json.Marshal(channels)
	if err != nil {
		return false
	}
	i.Channels = datatypes.JSON(raw)
	return true
}
