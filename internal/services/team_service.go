package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brianyyz/ShareRidesV2Server/internal/apperr"
	"github.com/brianyyz/ShareRidesV2Server/internal/models"
	"github.com/brianyyz/ShareRidesV2Server/internal/push"
)

var (
	ErrTeamNotFound        = errors.New("team not found")
	ErrNotTeamOwner        = errors.New("caller does not own this team")
	ErrTeamRequestNotFound = errors.New("team request not found")
	ErrCannotApproveTeam   = errors.New("team request is already approved or caller is not the team owner")
	ErrCannotPendTeam      = errors.New("team request is already pending or caller is not the team owner")
	ErrNotTeamRequester    = errors.New("caller does not own this team request")
)

// TeamService owns teams and the requests to join them. Approval of a team
// request doubles as membership, so every approval change also syncs the
// team tag across the requester's installations.
type TeamService struct {
	db            *gorm.DB
	pusher        *push.Dispatcher
	installations *InstallationService
}

func NewTeamService(db *gorm.DB, pusher *push.Dispatcher, installations *InstallationService) *TeamService {
	return &TeamService{db: db, pusher: pusher, installations: installations}
}

// CreateTeam persists a team owned by the caller.
func (s *TeamService) CreateTeam(ctx context.Context, team *models.Team) error {
	if err := s.db.WithContext(ctx).Create(team).Error; err != nil {
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}

// CreateRequest runs the before-save rule for a new team request: approval
// is the team's auto-approve preference, or immediate when the requester is
// the team's own owner. The team owner reference is stamped server-side.
func (s *TeamService) CreateRequest(ctx context.Context, tr *models.TeamRequest, callerID uuid.UUID) error {
	var team models.Team
	if err := s.db.WithContext(ctx).First(&team, "id = ?", tr.TeamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return apperr.Wrap(apperr.CodeGeneric, "Unable to retrieve the Team for the autoapprove setting.", err)
	}

	tr.TeamOwnerID = team.OwnerID
	tr.RequestApproved = team.AutoApproveRequests || team.OwnerID == callerID

	if err := s.db.WithContext(ctx).Create(tr).Error; err != nil {
		return fmt.Errorf("create team request: %w", err)
	}

	s.afterSaveRequest(ctx, tr)
	return nil
}

// ApprovePending flips a pending team request to approved; team owner only.
func (s *TeamService) ApprovePending(ctx context.Context, requestID, callerID uuid.UUID) error {
	var tr models.TeamRequest
	if err := s.db.WithContext(ctx).First(&tr, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCannotApproveTeam
		}
		return err
	}
	if tr.RequestApproved || tr.TeamOwnerID != callerID {
		return ErrCannotApproveTeam
	}

	tr.RequestApproved = true
	if err := s.db.WithContext(ctx).Save(&tr).Error; err != nil {
		return fmt.Errorf("approve team request: %w", err)
	}

	s.afterSaveRequest(ctx, &tr)
	return nil
}

// PendRequest reverses an approval, effectively taking the member out of
// the team; team owner only.
func (s *TeamService) PendRequest(ctx context.Context, requestID, callerID uuid.UUID) error {
	var tr models.TeamRequest
	if err := s.db.WithContext(ctx).First(&tr, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCannotPendTeam
		}
		return err
	}
	if !tr.RequestApproved || tr.TeamOwnerID != callerID {
		return ErrCannotPendTeam
	}

	tr.RequestApproved = false
	if err := s.db.WithContext(ctx).Save(&tr).Error; err != nil {
		return fmt.Errorf("pend team request: %w", err)
	}

	s.afterSaveRequest(ctx, &tr)
	return nil
}

// DeleteRequest lets a requester leave a team: the request row goes away,
// the team tag is stripped from their installations, and both parties hear
// about it.
func (s *TeamService) DeleteRequest(ctx context.Context, requestID, callerID uuid.UUID) error {
	var tr models.TeamRequest
	if err := s.db.WithContext(ctx).First(&tr, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamRequestNotFound
		}
		return err
	}
	if tr.RequestOwnerID != callerID {
		return ErrNotTeamRequester
	}

	if err := s.db.WithContext(ctx).Delete(&models.TeamRequest{}, "id = ?", requestID).Error; err != nil {
		return fmt.Errorf("delete team request: %w", err)
	}

	if err := s.installations.SetUserTeam(ctx, tr.RequestOwnerID, tr.TeamID, TeamOpRemove); err != nil {
		slog.Error("leave-team sync failed", "action", "team_request_delete",
			"request_id", tr.ID, "error", err)
	}

	leftPayload := push.Payload{
		Key:              push.KeyTeamLeft,
		Alert:            "Your request to leave a Team completed successfully.",
		Badge:            1,
		Refresh:          refreshInstallations,
		ContentAvailable: true,
	}
	if err := s.pusher.Send(ctx, push.ToUser(tr.RequestOwnerID), leftPayload); err != nil {
		slog.Error("leave-team notify failed", "action", "team_request_delete",
			"request_id", tr.ID, "error", err)
	}
	if err := s.pusher.Send(ctx, push.ToUser(tr.TeamOwnerID), push.Silent(refreshInstallations)); err != nil {
		slog.Error("leave-team owner refresh failed", "action", "team_request_delete",
			"request_id", tr.ID, "error", err)
	}
	return nil
}

// DeleteTeam soft-deletes a team and unwinds its membership: every member
// is alerted, their installations lose the team tag, team-less subscribers
// get a silent refresh, and finally all the team's requests are removed.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID, callerID uuid.UUID) error {
	var team models.Team
	if err := s.db.WithContext(ctx).First(&team, "id = ?", teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return err
	}
	if team.OwnerID != callerID {
		return ErrNotTeamOwner
	}

	now := time.Now()
	team.Deleted = true
	team.DeletedDate = &now
	if err := s.db.WithContext(ctx).Save(&team).Error; err != nil {
		return fmt.Errorf("soft-delete team: %w", err)
	}

	var requests []models.TeamRequest
	if err := s.db.WithContext(ctx).Where("team_id = ?", teamID).Find(&requests).Error; err != nil {
		return fmt.Errorf("list team requests: %w", err)
	}

	deletedPayload := push.Payload{
		Key:   push.KeyTeamDeleted,
		Alert: "The ShareRides Team you belong to has been deleted by the owner. Please choose another Team in the app settings tab",
		Badge: 1,
	}
	for _, tr := range requests {
		if err := s.pusher.Send(ctx, push.ToUser(tr.RequestOwnerID), deletedPayload); err != nil {
			slog.Error("team deleted notify failed", "action", "team_delete",
				"team_id", teamID, "request_id", tr.ID, "error", err)
		}
		if err := s.installations.SetUserTeam(ctx, tr.RequestOwnerID, teamID, TeamOpRemove); err != nil {
			slog.Error("team deleted sync failed", "action", "team_delete",
				"team_id", teamID, "request_id", tr.ID, "error", err)
		}
	}

	teamless := push.ToChannel(models.ChannelSilentContent).MatchingTeam(nil)
	if err := s.pusher.Send(ctx, teamless, push.Silent(refreshInstallations)); err != nil {
		slog.Error("team deleted refresh failed", "action", "team_delete", "team_id", teamID, "error", err)
	}

	if err := s.db.WithContext(ctx).Where("team_id = ?", teamID).Delete(&models.TeamRequest{}).Error; err != nil {
		return fmt.Errorf("delete team requests: %w", err)
	}
	return nil
}

// CheckPending lists the caller's teams' requests still waiting on approval.
func (s *TeamService) CheckPending(ctx context.Context, ownerID uuid.UUID) ([]models.TeamRequest, error) {
	var pending []models.TeamRequest
	err := s.db.WithContext(ctx).
		Where("team_owner_id = ? AND request_approved = ?", ownerID, false).
		Find(&pending).Error
	if err != nil {
		return nil, err
	}
	return pending, nil
}

// HasRequests reports whether any join requests exist for the team.
func (s *TeamService) HasRequests(ctx context.Context, teamID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.TeamRequest{}).
		Where("team_id = ?", teamID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// afterSaveRequest syncs membership to match the approval state and tells
// both sides. A sync failure is reported operationally; the saved approval
// state stands either way.
func (s *TeamService) afterSaveRequest(ctx context.Context, tr *models.TeamRequest) {
	op := TeamOpRemove
	if tr.RequestApproved {
		op = TeamOpAdd
	}
	if err := s.installations.SetUserTeam(ctx, tr.RequestOwnerID, tr.TeamID, op); err != nil {
		slog.Error("membership sync failed", "action", "team_request_after_save",
			"request_id", tr.ID, "error", err)
	}

	requesterPayload := push.Payload{
		Key:              push.KeyTeamApproved,
		Alert:            "Your request to join a team has been approved",
		Badge:            1,
		Refresh:          refreshInstallations,
		ContentAvailable: true,
	}
	if !tr.RequestApproved {
		requesterPayload.Key = push.KeyTeamPending
		requesterPayload.Alert = "Your request to join a team is pending approval by the team owner"
	}
	if err := s.pusher.Send(ctx, push.ToUser(tr.RequestOwnerID), requesterPayload); err != nil {
		slog.Error("team request notify failed", "action", "team_request_after_save",
			"request_id", tr.ID, "error", err)
	}

	if tr.RequestApproved {
		if err := s.pusher.Send(ctx, push.ToUser(tr.TeamOwnerID), push.Silent(refreshInstallations)); err != nil {
			slog.Error("team owner refresh failed", "action", "team_request_after_save",
				"request_id", tr.ID, "error", err)
		}
		return
	}

	ownerPayload := push.Payload{
		Key:              push.KeyTeamPending,
		Alert:            "There are requests to join your team waiting for your approval.",
		Badge:            1,
		Refresh:          refreshInstallations,
		ContentAvailable: true,
	}
	if err := s.pusher.Send(ctx, push.ToUser(tr.TeamOwnerID), ownerPayload); err != nil {
		slog.Error("team owner pending notify failed", "action", "team_request_after_save",
			"request_id", tr.ID, "error", err)
	}
}
