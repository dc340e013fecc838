package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/brianyyz/ShareRidesV2Server/internal/models"
)

// StatusSnapshot is what clients poll to decide whether to operate and
// whether their build is still supported.
type StatusSnapshot struct {
	OnlineStatus     bool      `json:"onlineStatus"`
	NextCheck        int       `json:"nextCheck"`
	ETA              time.Time `json:"eta"`
	OutageReason     string    `json:"outageReason"`
	MinClientVersion string    `json:"minClientVersion"`
	MinClientBuild   string    `json:"minClientBuild"`
}

// StatusService reads the system status record.
type StatusService struct {
	db *gorm.DB
}

func NewStatusService(db *gorm.DB) *StatusService {
	return &StatusService{db: db}
}

// Snapshot returns the current status row, or the documented defaults when
// none exists: clients stay online and are told the record is missing.
func (s *StatusService) Snapshot(ctx context.Context) (*StatusSnapshot, error) {
	var status models.SystemStatus
	err := s.db.WithContext(ctx).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &StatusSnapshot{
			OnlineStatus:     true,
			NextCheck:        14400,
			ETA:              time.Date(2016, 1, 1, 12, 0, 0, 0, time.UTC),
			OutageReason:     "The system status record is missing or invalid.",
			MinClientVersion: "0",
			MinClientBuild:   "0",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	return &StatusSnapshot{
		OnlineStatus:     status.Online,
		NextCheck:        status.NextCheckSeconds,
		ETA:              status.ExpectedAvailability,
		OutageReason:     status.OutageReason,
		MinClientVersion: status.MinClientVersion,
		MinClientBuild:   status.MinClientBuild,
	}, nil
}

// SetStatus replaces the status record (admin only, via handler guard).
func (s *StatusService) SetStatus(ctx context.Context, status *models.SystemStatus) error {
	var existing models.SystemStatus
	err := s.db.WithContext(ctx).First(&existing).Error
	if err == nil {
		status.ID = existing.ID
		status.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.db.WithContext(ctx).Save(status).Error
}
