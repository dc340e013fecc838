package models

import (
	"time"

	"github.com/google/uuid"
)

// Team scopes ride and request visibility to its members. Teams are
// soft-deleted so historic rides keep a resolvable reference.
type Team struct {
	ID                  uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name                string     `gorm:"size:255;not null" json:"teamName"`
	OwnerID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"teamOwnerId"`
	AutoApproveRequests bool       `gorm:"default:false" json:"teamAutoApproveRequests"`
	Deleted             bool       `gorm:"default:false" json:"teamDeleted"`
	DeletedDate         *time.Time `json:"teamDeletedDate"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// TeamRequest is a user's ask to join a team. Approval doubles as the
// membership flag: approved requests are the team member list.
type TeamRequest struct {
	ID                      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TeamID                  uuid.UUID `gorm:"type:uuid;not null;index" json:"teamId"`
	TeamOwnerID             uuid.UUID `gorm:"type:uuid;not null;index" json:"teamOwnerId"`
	RequestOwnerID          uuid.UUID `gorm:"type:uuid;not null;index" json:"requestOwnerId"`
	RequestOwnerDisplayName string    `gorm:"size:255" json:"requestOwnerDisplayName"`
	RequestApproved         bool      `gorm:"default:false" json:"requestApproved"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}
