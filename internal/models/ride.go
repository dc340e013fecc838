package models

import (
	"time"

	"github.com/google/uuid"
)

// Ride is a trip offered by its owner. The team is stamped from the owner's
// installation at creation and never changed by the workflows afterwards.
type Ride struct {
	ID                     uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID                uuid.UUID  `gorm:"type:uuid;not null;index" json:"rideOwnerId"`
	OwnerDisplayName       string     `gorm:"size:255" json:"rideOwnerDisplayname"`
	RideDate               time.Time  `gorm:"not null;index" json:"rideDate"`
	OwnerTimeZoneName      string     `gorm:"size:64" json:"ownerTimeZoneName"`
	OriginDescription      string     `gorm:"size:255" json:"originDescription"`
	OriginNotes            string     `gorm:"type:text" json:"originNotes"`
	DestinationDescription string     `gorm:"size:255" json:"destinationDescription"`
	SeatsInCar             int        `gorm:"not null" json:"seatsInCar"`
	TeamID                 *uuid.UUID `gorm:"type:uuid;index" json:"teamId"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}
