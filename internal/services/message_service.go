package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/brianyyz/ShareRidesV2Server/internal/models"
	"github.com/brianyyz/ShareRidesV2Server/internal/push"
)

// MessageService relays free-text messages between a ride's owner and the
// riders who requested it. Messages are push-only; nothing is stored.
type MessageService struct {
	db     *gorm.DB
	pusher *push.Dispatcher
}

func NewMessageService(db *gorm.DB, pusher *push.Dispatcher) *MessageService {
	return &MessageService{db: db, pusher: pusher}
}

// SendToPassengers delivers the owner's message to every requester of the
// ride whose devices subscribe to user messages. Returns the usernames that
// were actually reachable so the client can show who got it.
func (s *MessageService) SendToPassengers(ctx context.Context, rideID uuid.UUID, message string) ([]string, error) {
	var ride models.Ride
	if err := s.db.WithContext(ctx).First(&ride, "id = ?", rideID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, fmt.Errorf("lookup ride: %w", err)
	}

	var requests []models.Request
	if err := s.db.WithContext(ctx).Where("ride_id = ?", rideID).Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	payload := push.Payload{
		Key:   push.KeyMessageToPassengers,
		Alert: fmt.Sprintf("From %s: %s", ride.OwnerDisplayName, message),
		Badge: 1,
	}

	var notified []string
	for _, req := range requests {
		reachable, err := s.subscribedDevices(ctx, req.RequestOwnerID)
		if err != nil {
			return nil, err
		}
		if !reachable {
			continue
		}
		audience := push.ToChannel(models.ChannelUserMessages).ForUser(req.RequestOwnerID)
		if err := s.pusher.Send(ctx, audience, payload); err != nil {
			return nil, fmt.Errorf("message passenger %s: %w", req.RequestOwnerID, err)
		}
		username, err := s.username(ctx, req.RequestOwnerID)
		if err != nil {
			return nil, err
		}
		notified = append(notified, username)
	}
	return notified, nil
}

// SendToOwner delivers a rider's message to the ride owner. The returned
// slice holds the owner's username when delivery happened, and is empty when
// the owner has no installation subscribed to user messages.
func (s *MessageService) SendToOwner(ctx context.Context, rideID, callerID uuid.UUID, message string) ([]string, error) {
	var ride models.Ride
	if err := s.db.WithContext(ctx).First(&ride, "id = ?", rideID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, fmt.Errorf("lookup ride: %w", err)
	}

	callerUsername, err := s.username(ctx, callerID)
	if err != nil {
		return nil, err
	}

	reachable, err := s.subscribedDevices(ctx, ride.OwnerID)
	if err != nil {
		return nil, err
	}
	if !reachable {
		return []string{}, nil
	}

	payload := push.Payload{
		Key:   push.KeyMessageToOwner,
		Alert: fmt.Sprintf("From %s: %s", callerUsername, message),
		Badge: 1,
	}
	audience := push.ToChannel(models.ChannelUserMessages).ForUser(ride.OwnerID)
	if err := s.pusher.Send(ctx, audience, payload); err != nil {
		return nil, fmt.Errorf("message ride owner: %w", err)
	}

	username, err := s.username(ctx, ride.OwnerID)
	if err != nil {
		return nil, err
	}
	return []string{username}, nil
}

func (s *MessageService) subscribedDevices(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Installation{}).
		Where("user_id = ?", userID).
		Where(datatypes.JSONArrayQuery("channels").Contains(models.ChannelUserMessages)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check message subscription for %s: %w", userID, err)
	}
	return count > 0, nil
}

func (s *MessageService) username(ctx context.Context, userID uuid.UUID) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return "", fmt.Errorf("lookup user %s: %w", userID, err)
	}
	return user.Username, nil
}
