package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemStatus is read by the status endpoint; at most one row matters.
// Clients poll it to decide whether to operate and whether they are too old.
type SystemStatus struct {
	ID                   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Online               bool      `gorm:"default:true" json:"online"`
	NextCheckSeconds     int       `gorm:"default:14400" json:"nextServerStatusCheckSeconds"`
	ExpectedAvailability time.Time `json:"expectedAvailability"`
	OutageReason         string    `gorm:"size:255" json:"outageReason"`
	MinClientVersion     string    `gorm:"size:20" json:"minClientVersion"`
	MinClientBuild       string    `gorm:"size:20" json:"minClientBuild"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}
