package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/brianyyz/ShareRidesV2Server/internal/models"
	"github.com/brianyyz/ShareRidesV2Server/internal/push"
)

// UserService mirrors identity-provider users into the local store and
// grants the access role every reader and writer is gated on.
type UserService struct {
	db     *gorm.DB
	pusher *push.Dispatcher
}

func NewUserService(db *gorm.DB, pusher *push.Dispatcher) *UserService {
	return &UserService{db: db, pusher: pusher}
}

// Sync upserts the user record after a client login. New users are
// announced on the admin channel; a role-grant problem is reported
// operationally but never fails the sync for the client.
func (s *UserService) Sync(ctx context.Context, user *models.User) error {
	var existing models.User
	err := s.db.WithContext(ctx).First(&existing, "id = ?", user.ID).Error
	isNew := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !isNew {
		return fmt.Errorf("lookup user: %w", err)
	}

	if isNew {
		s.pusher.SendToAdmin(ctx, "New User created")
	} else {
		user.CreatedAt = existing.CreatedAt
		if user.Role == "" {
			user.Role = existing.Role
		}
	}

	if user.Role == "" {
		user.Role = models.RoleGeneralUser
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if isNew {
			// without the role grant the user cannot see any data;
			// flag it to the admin channel, the client retries on
			// next launch
			slog.Error("user role grant failed", "action", "user_sync", "user_id", user.ID, "error", err)
			s.pusher.SendToAdmin(ctx, "Could not grant access role to "+user.ID.String())
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}
