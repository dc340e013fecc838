package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brianyyz/ShareRidesV2Server/internal/apperr"
	"github.com/brianyyz/ShareRidesV2Server/internal/models"
	"github.com/brianyyz/ShareRidesV2Server/internal/push"
)

// TeamOp selects what the membership sync does with the team tag.
type TeamOp string

const (
	TeamOpAdd    TeamOp = "A"
	TeamOpRemove TeamOp = "R"
)

var ErrBadSyncArgs = errors.New("membership sync needs a user, a team and a recognized operation")

// InstallationService manages device registrations: the team tag the
// membership workflows keep in sync across a user's devices, and the
// channel subscriptions that scope push audiences.
type InstallationService struct {
	db     *gorm.DB
	pusher *push.Dispatcher
}

func NewInstallationService(db *gorm.DB, pusher *push.Dispatcher) *InstallationService {
	return &InstallationService{db: db, pusher: pusher}
}

// Upsert registers or refreshes a device record, stamping the
// authenticated user onto it so pushes reach every device they log in on.
func (s *InstallationService) Upsert(ctx context.Context, inst *models.Installation, userID uuid.UUID) error {
	inst.UserID = &userID

	var existing models.Installation
	err := s.db.WithContext(ctx).Where("device_token = ?", inst.DeviceToken).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.WithContext(ctx).Create(inst).Error; err != nil {
			return fmt.Errorf("create installation: %w", err)
		}
		return nil
	case err != nil:
		return err
	}

	inst.ID = existing.ID
	inst.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(inst).Error; err != nil {
		return fmt.Errorf("update installation: %w", err)
	}
	return nil
}

// SetUserTeam applies or strips the team tag on every installation the user
// owns, then wakes the user's devices with a silent refresh. Installations
// already saved stay saved when a later one fails; the overall result still
// fails so the caller knows the sync is incomplete.
func (s *InstallationService) SetUserTeam(ctx context.Context, userID, teamID uuid.UUID, op TeamOp) error {
	if userID == uuid.Nil || teamID == uuid.Nil || (op != TeamOpAdd && op != TeamOpRemove) {
		return ErrBadSyncArgs
	}

	var installations []models.Installation
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&installations).Error; err != nil {
		return fmt.Errorf("lookup installations for user %s: %w", userID, err)
	}

	var firstErr error
	for i := range installations {
		if op == TeamOpAdd {
			installations[i].TeamID = &teamID
		} else {
			installations[i].TeamID = nil
		}
		if err := s.db.WithContext(ctx).Save(&installations[i]).Error; err != nil {
			slog.Error("installation team sync failed", "action", "team_sync",
				"installation_id", installations[i].ID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return fmt.Errorf("sync team tag: %w", firstErr)
	}

	if err := s.pusher.Send(ctx, push.ToUser(userID), push.Silent(refreshInstallations)); err != nil {
		slog.Error("team sync refresh failed", "action", "team_sync", "user_id", userID, "error", err)
	}
	return nil
}

// SubscribeToChannel adds a channel across all of the caller's
// installations. The userId parameter must match the authenticated caller.
func (s *InstallationService) SubscribeToChannel(ctx context.Context, channel string, userID, callerID uuid.UUID) error {
	if channel == "" {
		return apperr.New(apperr.CodeMissingChannel, "Missing parameter: channel")
	}
	if userID == uuid.Nil {
		return apperr.New(apperr.CodeMissingUser, "Missing parameter: userId")
	}
	if userID != callerID {
		return apperr.New(apperr.CodeGeneric, "Requesters id and userid in the request do not match")
	}

	var installations []models.Installation
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&installations).Error; err != nil {
		return fmt.Errorf("lookup installations for user %s: %w", userID, err)
	}

	for i := range installations {
		if !installations[i].AddChannel(channel) {
			continue
		}
		if err := s.db.WithContext(ctx).Save(&installations[i]).Error; err != nil {
			return fmt.Errorf("subscribe installation %s: %w", installations[i].ID, err)
		}
	}
	return nil
}
