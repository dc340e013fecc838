package models

import (
	"time"

	"github.com/google/uuid"
)

// RoleGeneralUser is granted to every synced user; data access is gated on it.
const RoleGeneralUser = "generalUser"

// User mirrors the identity provider's record. The server never manages
// credentials; rows are upserted when a client syncs after login.
type User struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username            string    `gorm:"size:255;not null;uniqueIndex" json:"username"`
	DisplayName         string    `gorm:"size:255" json:"displayName"`
	Role                string    `gorm:"size:50;default:''" json:"role"`
	AutoApproveRequests bool      `gorm:"default:false" json:"autoApproveRequests"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}
