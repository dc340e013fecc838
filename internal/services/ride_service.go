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
	"github.com/brianyyz/ShareRidesV2Server/internal/config"
	"github.com/brianyyz/ShareRidesV2Server/internal/dates"
	"github.com/brianyyz/ShareRidesV2Server/internal/models"
	"github.com/brianyyz/ShareRidesV2Server/internal/push"
)

// Client cache hints carried in the refresh field of push payloads.
const (
	refreshRides         = "Rides"
	refreshRequests      = "Requests"
	refreshInstallations = "Installation"
)

var (
	ErrRideNotFound = errors.New("ride not found")
	ErrNotRideOwner = errors.New("caller does not own this ride")
)

const (
	msgRideInPast       = "The server could not save your Ride because the date and time cannot be in the past"
	msgRideTooFewSeats  = "The server could not save your Ride because it needs to have at least 1 seat available."
	msgRideTooManySeats = "The server could not save your Ride because it has more than the maximum number of seats available (5)."
)

// RideService owns the ride lifecycle: validation before a save commits,
// notification fan-out after it, and the request cascade around deletion.
type RideService struct {
	db       *gorm.DB
	cfg      *config.Config
	pusher   *push.Dispatcher
	requests *RequestService
}

func NewRideService(db *gorm.DB, cfg *config.Config, pusher *push.Dispatcher, requests *RequestService) *RideService {
	return &RideService{db: db, cfg: cfg, pusher: pusher, requests: requests}
}

// ValidateRideFields applies the pure save-time rules in priority order:
// date not in the past, then the seat bounds. The first violation wins.
func ValidateRideFields(ride *models.Ride, now time.Time, minSeats, maxSeats int) *apperr.Error {
	if dates.Compare(now, ride.RideDate) > 0 {
		return apperr.New(apperr.CodeRideDateInPast, msgRideInPast)
	}
	if ride.SeatsInCar < minSeats {
		return apperr.New(apperr.CodeRideTooFewSeats, msgRideTooFewSeats)
	}
	if ride.SeatsInCar > maxSeats {
		return apperr.New(apperr.CodeRideTooManySeats, msgRideTooManySeats)
	}
	return nil
}

// Create validates and persists a new ride, stamping the owner's current
// team onto it when the owner has an installation carrying one.
func (s *RideService) Create(ctx context.Context, ride *models.Ride) error {
	s.pusher.SendToAdmin(ctx, "New Ride created by "+ride.OwnerID.String())

	teamID, err := s.ownerTeam(ctx, ride.OwnerID)
	if err != nil {
		return apperr.Wrap(apperr.CodeRideLookupFailed,
			"Query Error finding Installation for this user", err)
	}

	if aerr := ValidateRideFields(ride, time.Now(), s.cfg.MinSeats, s.cfg.MaxSeats); aerr != nil {
		return aerr
	}

	// an owner with no installation yields a team-less ride; accepted
	// corner case, not an error
	ride.TeamID = teamID

	if err := s.db.WithContext(ctx).Create(ride).Error; err != nil {
		return fmt.Errorf("create ride: %w", err)
	}

	s.afterSave(ctx, ride, false)
	return nil
}

// Update validates and persists changes to an existing ride. The team set
// at creation is never restamped.
func (s *RideService) Update(ctx context.Context, ride *models.Ride) error {
	if _, err := s.ownerTeam(ctx, ride.OwnerID); err != nil {
		return apperr.Wrap(apperr.CodeRideLookupFailed,
			"Query Error finding Installation for this user", err)
	}

	if aerr := ValidateRideFields(ride, time.Now(), s.cfg.MinSeats, s.cfg.MaxSeats); aerr != nil {
		return aerr
	}

	if err := s.db.WithContext(ctx).Save(ride).Error; err != nil {
		return fmt.Errorf("update ride: %w", err)
	}

	s.afterSave(ctx, ride, true)
	return nil
}

// Get loads one ride.
func (s *RideService) Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	var ride models.Ride
	if err := s.db.WithContext(ctx).First(&ride, "id = ?", rideID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}
	return &ride, nil
}

// List returns upcoming rides visible to the given team scope.
func (s *RideService) List(ctx context.Context, teamID *uuid.UUID) ([]models.Ride, error) {
	query := s.db.WithContext(ctx).Where("ride_date >= ?", time.Now())
	if teamID != nil {
		query = query.Where("team_id = ?", *teamID)
	} else {
		query = query.Where("team_id IS NULL")
	}
	var rides []models.Ride
	if err := query.Order("ride_date ASC").Find(&rides).Error; err != nil {
		return nil, err
	}
	return rides, nil
}

// Delete removes a ride owned by the caller. Every linked request is
// tombstoned first so the cascade can tell owner-cancellation apart from a
// rider leaving; a tombstone failure aborts the deletion entirely.
func (s *RideService) Delete(ctx context.Context, rideID, callerID uuid.UUID) error {
	ride, err := s.Get(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.OwnerID != callerID {
		return ErrNotRideOwner
	}

	if err := s.db.WithContext(ctx).Model(&models.Request{}).
		Where("ride_id = ?", rideID).
		Update("ride_deleted", true).Error; err != nil {
		return apperr.Wrap(apperr.CodeRideDeleteFailed, "An error occurred deleting the Ride.", err)
	}

	var linked []models.Request
	if err := s.db.WithContext(ctx).Where("ride_id = ?", rideID).Find(&linked).Error; err != nil {
		return apperr.Wrap(apperr.CodeRideDeleteFailed, "An error occurred deleting the Ride.", err)
	}

	if err := s.db.WithContext(ctx).Delete(&models.Ride{}, "id = ?", rideID).Error; err != nil {
		return fmt.Errorf("delete ride: %w", err)
	}

	s.afterDelete(ctx, ride, linked)
	return nil
}

// afterSave runs the post-commit fan-out. Nothing here can fail the save;
// errors are logged and reported operationally only.
func (s *RideService) afterSave(ctx context.Context, ride *models.Ride, existed bool) {
	if dates.Compare(time.Now(), ride.RideDate) >= 0 {
		slog.Debug("ride date is in the past, skipping fan-out", "ride_id", ride.ID)
		return
	}

	// silent refresh keeps client caches fresh regardless of whether the
	// visible alert gets through
	silentAudience := push.ToChannel(models.ChannelSilentContent).MatchingTeam(ride.TeamID)
	silent := push.Silent(refreshRides)
	refreshExpiry := time.Now().Add(s.cfg.RideAlertExpiry)
	silent.ExpireAt = &refreshExpiry
	if err := s.pusher.Send(ctx, silentAudience, silent); err != nil {
		slog.Error("ride silent refresh failed", "action", "ride_after_save", "ride_id", ride.ID, "error", err)
		return
	}

	when := dates.FormatInZone(ride.RideDate, ride.OwnerTimeZoneName, s.cfg.DefaultTimeZone)
	expire := ride.RideDate

	if existed {
		alert := fmt.Sprintf("Ride from %s to %s has changed - %s",
			ride.OriginDescription, ride.DestinationDescription, when)
		if len(ride.OriginNotes) > 0 {
			alert += " Notes: " + ride.OriginNotes
		}

		var requests []models.Request
		if err := s.db.WithContext(ctx).Where("ride_id = ?", ride.ID).Find(&requests).Error; err != nil {
			slog.Error("ride change notify lookup failed", "action", "ride_after_save", "ride_id", ride.ID, "error", err)
			return
		}
		for _, req := range requests {
			payload := push.Payload{
				Key:      push.KeyRideChanged,
				Alert:    alert,
				Badge:    1,
				Refresh:  refreshRequests,
				ExpireAt: &expire,
			}
			if err := s.pusher.Send(ctx, push.ToUser(req.RequestOwnerID), payload); err != nil {
				slog.Error("ride change notify failed", "action", "ride_after_save",
					"ride_id", ride.ID, "request_id", req.ID, "error", err)
			}
		}
		return
	}

	alert := fmt.Sprintf("New Ride from %s to %s - %s",
		ride.OriginDescription, ride.DestinationDescription, when)
	if len(ride.OriginNotes) > 0 {
		alert += " Notes: " + ride.OriginNotes
	}
	audience := push.ToChannel(models.ChannelNewRide).
		MatchingTeam(ride.TeamID).
		ExcludingUser(ride.OwnerID)
	payload := push.Payload{Key: push.KeyNewRide, Alert: alert, Badge: 1, ExpireAt: &expire}
	if err := s.pusher.Send(ctx, audience, payload); err != nil {
		slog.Error("new ride notify failed", "action", "ride_after_save", "ride_id", ride.ID, "error", err)
	}
}

// afterDelete tears down the linked requests and tells each requester.
// Requests are handled independently: one rider's failure never blocks the
// rest of the cascade.
func (s *RideService) afterDelete(ctx context.Context, ride *models.Ride, linked []models.Request) {
	if dates.Compare(time.Now(), ride.RideDate) >= 0 {
		slog.Debug("deleted ride already in the past, no alerts", "ride_id", ride.ID)
		return
	}

	when := dates.FormatInZone(ride.RideDate, ride.OwnerTimeZoneName, s.cfg.DefaultTimeZone)
	alert := fmt.Sprintf("The Ride that you booked from %s to %s on %s has been cancelled by the owner",
		ride.OriginDescription, ride.DestinationDescription, when)
	expire := ride.RideDate

	for _, req := range linked {
		if err := s.db.WithContext(ctx).Delete(&models.Request{}, "id = ?", req.ID).Error; err != nil {
			slog.Error("cascade request delete failed", "action", "ride_after_delete",
				"ride_id", ride.ID, "request_id", req.ID, "error", err)
			continue
		}
		s.requests.afterDelete(ctx, &req)

		payload := push.Payload{
			Key:      push.KeyRideCancelled,
			Alert:    alert,
			Badge:    1,
			Refresh:  refreshRequests,
			ExpireAt: &expire,
		}
		if err := s.pusher.Send(ctx, push.ToUser(req.RequestOwnerID), payload); err != nil {
			slog.Error("ride cancelled notify failed", "action", "ride_after_delete",
				"ride_id", ride.ID, "request_id", req.ID, "error", err)
		}
	}
}

// ownerTeam reads the team tag from the owner's current installation. A
// missing installation is not an error; the caller gets a nil team.
func (s *RideService) ownerTeam(ctx context.Context, ownerID uuid.UUID) (*uuid.UUID, error) {
	var inst models.Installation
	err := s.db.WithContext(ctx).Where("user_id = ?", ownerID).First(&inst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inst.TeamID, nil
}
