package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/brianyyz/ShareRidesV2Server/internal/apperr"
	"github.com/brianyyz/ShareRidesV2Server/internal/config"
	"github.com/brianyyz/ShareRidesV2Server/internal/models"
	"github.com/brianyyz/ShareRidesV2Server/internal/push"
)

var (
	ErrRequestNotFound = errors.New("request not found")
	// ErrCannotApprove covers both bad state and wrong caller; the client
	// gets one answer either way.
	ErrCannotApprove   = errors.New("request is already approved or caller is not the ride owner")
	ErrCannotPend      = errors.New("request is already pending or caller is not the ride owner")
	ErrNotRequestParty = errors.New("caller is neither the requester nor the ride owner")
)

const (
	msgNoSeats      = "There are no seats available in the server copy of the Ride requested."
	msgTeamMismatch = "Your Team and the requested Ride Team do not match."
	msgLookupFailed = "Unable to retrieve the Ride, its owner, or the requester."
)

// RequestService owns the ride-request lifecycle: capacity and team checks
// at creation, the approve/pend transitions, and the fan-out and archival
// around saves and deletes.
type RequestService struct {
	db     *gorm.DB
	cfg    *config.Config
	pusher *push.Dispatcher
}

func NewRequestService(db *gorm.DB, cfg *config.Config, pusher *push.Dispatcher) *RequestService {
	return &RequestService{db: db, cfg: cfg, pusher: pusher}
}

// ReconcileTeams applies the team-matching rule between a ride and a
// requester: both unset passes with no team, both set and equal passes with
// that team, anything else is rejected.
func ReconcileTeams(rideTeam, userTeam *uuid.UUID) (*uuid.UUID, *apperr.Error) {
	switch {
	case rideTeam == nil && userTeam == nil:
		return nil, nil
	case rideTeam != nil && userTeam != nil && *rideTeam == *userTeam:
		return rideTeam, nil
	case rideTeam != nil && userTeam != nil:
		return nil, apperr.New(apperr.CodeRequestTeamMismatch, msgTeamMismatch)
	default:
		return nil, apperr.New(apperr.CodeRequestTeamOneSided, msgTeamMismatch)
	}
}

// Create runs the before-save state machine for a new request and persists
// it. Manual adds skip capacity and team checks but only the ride's actual
// owner may make them: the request is approved outright and takes the
// ride's team. The ride-owner reference is always taken from the ride row,
// never from the submitted request.
func (s *RequestService) Create(ctx context.Context, req *models.Request, callerID uuid.UUID) error {
	if req.RequestDate.IsZero() {
		req.RequestDate = time.Now()
	}

	if req.ManualAdd {
		var ride models.Ride
		if err := s.db.WithContext(ctx).First(&ride, "id = ?", req.RideID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRideNotFound
			}
			return apperr.Wrap(apperr.CodeRequestLookupFailed, msgLookupFailed, err)
		}
		if ride.OwnerID != callerID {
			return ErrNotRideOwner
		}
		req.RideOwnerID = ride.OwnerID
		req.TeamID = ride.TeamID
		req.RequestApproved = true
	} else {
		req.RequestOwnerID = callerID
		if aerr := s.validateNew(ctx, req); aerr != nil {
			return aerr
		}
	}

	if err := s.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	s.AfterSave(ctx, req)
	return nil
}

// Get loads one request.
func (s *RequestService) Get(ctx context.Context, requestID uuid.UUID) (*models.Request, error) {
	var req models.Request
	if err := s.db.WithContext(ctx).First(&req, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// Save re-persists an existing request without re-running the creation
// checks; approval changes flow through Approve/Pend, not here.
func (s *RequestService) Save(ctx context.Context, req *models.Request) error {
	if err := s.db.WithContext(ctx).Save(req).Error; err != nil {
		return fmt.Errorf("save request: %w", err)
	}
	s.AfterSave(ctx, req)
	return nil
}

// validateNew gathers the dependent lookups concurrently and applies the
// organic-request rules. Any lookup failure rejects with the query error
// code; the remaining checks are skipped.
func (s *RequestService) validateNew(ctx context.Context, req *models.Request) *apperr.Error {
	var (
		ride          models.Ride
		rideOwner     models.User
		approvedCount int64
		requesterTeam *uuid.UUID
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// the owner is resolved through the ride, so a spoofed owner
		// reference in the submitted request has no effect
		if err := s.db.WithContext(gctx).First(&ride, "id = ?", req.RideID).Error; err != nil {
			return err
		}
		return s.db.WithContext(gctx).First(&rideOwner, "id = ?", ride.OwnerID).Error
	})
	g.Go(func() error {
		var requester models.User
		return s.db.WithContext(gctx).First(&requester, "id = ?", req.RequestOwnerID).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Request{}).
			Where("ride_id = ? AND request_approved = ?", req.RideID, true).
			Count(&approvedCount).Error
	})
	g.Go(func() error {
		var inst models.Installation
		err := s.db.WithContext(gctx).Where("user_id = ?", req.RequestOwnerID).First(&inst).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// a requester with no installation simply has no team
			return nil
		}
		if err != nil {
			return err
		}
		requesterTeam = inst.TeamID
		return nil
	})
	if err := g.Wait(); err != nil {
		return apperr.Wrap(apperr.CodeRequestLookupFailed, msgLookupFailed, err)
	}

	req.RideOwnerID = ride.OwnerID

	// the ride owner's preference decides the initial approval state,
	// whatever the client submitted
	req.RequestApproved = rideOwner.AutoApproveRequests

	// read-then-decide capacity check; concurrent creations can still
	// overbook, which matches the source system's documented behavior
	if approvedCount >= int64(ride.SeatsInCar) {
		return apperr.New(apperr.CodeRequestNoSeats, msgNoSeats)
	}

	teamID, aerr := ReconcileTeams(ride.TeamID, requesterTeam)
	if aerr != nil {
		return aerr
	}
	req.TeamID = teamID
	return nil
}

// Approve flips a pending request to approved. Only the ride owner may do
// this, and only from the pending state.
func (s *RequestService) Approve(ctx context.Context, requestID, callerID uuid.UUID) error {
	var req models.Request
	if err := s.db.WithContext(ctx).First(&req, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCannotApprove
		}
		return err
	}
	if req.RequestApproved || req.RideOwnerID != callerID {
		return ErrCannotApprove
	}

	req.RequestApproved = true
	if err := s.db.WithContext(ctx).Save(&req).Error; err != nil {
		return fmt.Errorf("approve request: %w", err)
	}

	payload := push.Payload{
		Key:     push.KeyRequestApproved,
		Alert:   "Your request to join a Ride has been approved.",
		Badge:   1,
		Refresh: refreshInstallations,
	}
	if err := s.pusher.Send(ctx, push.ToUser(req.RequestOwnerID), payload); err != nil {
		slog.Error("approve notify failed", "action", "request_approve", "request_id", req.ID, "error", err)
	}

	s.AfterSave(ctx, &req)
	return nil
}

// Pend is the mirror transition: approved back to pending.
func (s *RequestService) Pend(ctx context.Context, requestID, callerID uuid.UUID) error {
	var req models.Request
	if err := s.db.WithContext(ctx).First(&req, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCannotPend
		}
		return err
	}
	if !req.RequestApproved || req.RideOwnerID != callerID {
		return ErrCannotPend
	}

	req.RequestApproved = false
	if err := s.db.WithContext(ctx).Save(&req).Error; err != nil {
		return fmt.Errorf("pend request: %w", err)
	}

	payload := push.Payload{
		Key:     push.KeyRequestPended,
		Alert:   "Your ShareRides request has been changed to pending. It needs approval from the Ride owner.",
		Badge:   1,
		Refresh: refreshInstallations,
	}
	if err := s.pusher.Send(ctx, push.ToUser(req.RequestOwnerID), payload); err != nil {
		slog.Error("pend notify failed", "action", "request_pend", "request_id", req.ID, "error", err)
	}

	s.AfterSave(ctx, &req)
	return nil
}

// Delete removes a request on behalf of the requester (leaving) or the ride
// owner (removing a rider), then runs the post-delete fan-out.
func (s *RequestService) Delete(ctx context.Context, requestID, callerID uuid.UUID) error {
	var req models.Request
	if err := s.db.WithContext(ctx).First(&req, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	if req.RequestOwnerID != callerID && req.RideOwnerID != callerID {
		return ErrNotRequestParty
	}

	if err := s.db.WithContext(ctx).Delete(&models.Request{}, "id = ?", requestID).Error; err != nil {
		return fmt.Errorf("delete request: %w", err)
	}

	s.afterDelete(ctx, &req)
	return nil
}

// CheckPending lists the caller's rides' requests still waiting on approval.
func (s *RequestService) CheckPending(ctx context.Context, ownerID uuid.UUID) ([]models.Request, error) {
	var pending []models.Request
	err := s.db.WithContext(ctx).
		Where("ride_owner_id = ? AND request_approved = ?", ownerID, false).
		Find(&pending).Error
	if err != nil {
		return nil, err
	}
	return pending, nil
}

// AfterSave pushes the silent refresh and, unless the request is being torn
// down by a ride deletion, tells the ride owner what changed. The owner is
// addressed by user identity.
func (s *RequestService) AfterSave(ctx context.Context, req *models.Request) {
	silentAudience := push.ToChannel(models.ChannelSilentContent).MatchingTeam(req.TeamID)
	if err := s.pusher.Send(ctx, silentAudience, push.Silent(refreshRequests)); err != nil {
		slog.Error("request silent refresh failed", "action", "request_after_save",
			"request_id", req.ID, "error", err)
		return
	}

	if req.RideDeleted {
		return
	}

	if !req.RequestApproved {
		payload := push.Payload{
			Key:   push.KeyRequestNeedsAction,
			Alert: req.RequestOwnerDisplayName + " has made a request to share your Ride which you need to approve.",
			Badge: 1,
		}
		if err := s.pusher.Send(ctx, push.ToUser(req.RideOwnerID), payload); err != nil {
			slog.Error("owner pending notify failed", "action", "request_after_save",
				"request_id", req.ID, "error", err)
		}
	}
	if req.RequestApproved {
		payload := push.Payload{
			Key:   push.KeyRiderJoined,
			Alert: "FYI " + req.RequestOwnerDisplayName + " has joined your Ride.",
			Badge: 1,
		}
		audience := push.ToChannel(models.ChannelSomeoneShares).ForUser(req.RideOwnerID)
		if err := s.pusher.Send(ctx, audience, payload); err != nil {
			slog.Error("owner joined notify failed", "action", "request_after_save",
				"request_id", req.ID, "error", err)
		}
	}
}

// afterDelete pushes the silent refresh, archives ride-deletion casualties,
// and tells the ride owner when a rider withdrew on their own.
func (s *RequestService) afterDelete(ctx context.Context, req *models.Request) {
	silentAudience := push.ToChannel(models.ChannelSilentContent).MatchingTeam(req.TeamID)
	payload := push.Silent(refreshRequests)
	refreshExpiry := time.Now().Add(s.cfg.ShareAlertExpiry)
	payload.ExpireAt = &refreshExpiry
	if err := s.pusher.Send(ctx, silentAudience, payload); err != nil {
		slog.Error("request delete refresh failed", "action", "request_after_delete",
			"request_id", req.ID, "error", err)
	}

	if req.RideDeleted {
		archived := models.RequestCancelled{
			RequestID:               req.ID,
			RideID:                  req.RideID,
			RideOwnerID:             req.RideOwnerID,
			RequestOwnerID:          req.RequestOwnerID,
			RequestOwnerDisplayName: req.RequestOwnerDisplayName,
			RequestApproved:         req.RequestApproved,
			RideDeleted:             req.RideDeleted,
			ManualAdd:               req.ManualAdd,
			TeamID:                  req.TeamID,
			RequestDate:             req.RequestDate,
		}
		if err := s.db.WithContext(ctx).Create(&archived).Error; err != nil {
			slog.Error("request archive failed", "action", "request_after_delete",
				"request_id", req.ID, "error", err)
		}
		return
	}

	withdrawal := push.Payload{
		Key:   push.KeyRequestWithdrawn,
		Alert: "FYI " + req.RequestOwnerDisplayName + " has cancelled their Request to join your Ride.",
		Badge: 1,
	}
	audience := push.ToChannel(models.ChannelSomeoneShares).ForUser(req.RideOwnerID)
	if err := s.pusher.Send(ctx, audience, withdrawal); err != nil {
		slog.Error("owner withdrawal notify failed", "action", "request_after_delete",
			"request_id", req.ID, "error", err)
	}
}
