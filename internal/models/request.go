package models

import (
	"time"

	"github.com/google/uuid"
)

// Request is a rider's ask to join a ride. RideDeleted marks requests being
// torn down because their ride was deleted, so the cascade can be told apart
// from a rider leaving on their own.
type Request struct {
	ID                      uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RideID                  uuid.UUID  `gorm:"type:uuid;not null;index" json:"rideId"`
	RideOwnerID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"rideOwnerId"`
	RequestOwnerID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"requestOwnerId"`
	RequestOwnerDisplayName string     `gorm:"size:255" json:"requestOwnerDisplayName"`
	RequestApproved         bool       `gorm:"default:false" json:"requestApproved"`
	RideDeleted             bool       `gorm:"default:false" json:"rideDeleted"`
	ManualAdd               bool       `gorm:"default:false" json:"manualAdd"`
	TeamID                  *uuid.UUID `gorm:"type:uuid;index" json:"teamId"`
	RequestDate             time.Time  `json:"requestDate"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

// RequestCancelled archives a request removed by a ride-deletion cascade.
// Client-initiated leaves are archived by the client, not here.
type RequestCancelled struct {
	ID                      uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID               uuid.UUID  `gorm:"type:uuid;not null;index" json:"requestId"`
	RideID                  uuid.UUID  `gorm:"type:uuid;not null;index" json:"rideId"`
	RideOwnerID             uuid.UUID  `gorm:"type:uuid;not null" json:"rideOwnerId"`
	RequestOwnerID          uuid.UUID  `gorm:"type:uuid;not null" json:"requestOwnerId"`
	RequestOwnerDisplayName string     `gorm:"size:255" json:"requestOwnerDisplayName"`
	RequestApproved         bool       `json:"requestApproved"`
	RideDeleted             bool       `json:"rideDeleted"`
	ManualAdd               bool       `json:"manualAdd"`
	TeamID                  *uuid.UUID `gorm:"type:uuid" json:"teamId"`
	RequestDate             time.Time  `json:"requestDate"`
	CreatedAt               time.Time  `json:"createdAt"`
}
