package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/brianyyz/ShareRidesV2Server/internal/services"
)

// Argument validation runs before any store access, so no database is needed.
func TestSetUserTeam_RejectsBadArgs(t *testing.T) {
	svc := services.NewInstallationService(nil, nil)

	tests := []struct {
		name   string
		userID uuid.UUID
		teamID uuid.UUID
		op     services.TeamOp
	}{
		{name: "missing user", userID: uuid.Nil, teamID: uuid.New(), op: services.TeamOpAdd},
		{name: "missing team", userID: uuid.New(), teamID: uuid.Nil, op: services.TeamOpRemove},
		{name: "unknown operation", userID: uuid.New(), teamID: uuid.New(), op: services.TeamOp("X")},
		{name: "empty operation", userID: uuid.New(), teamID: uuid.New(), op: services.TeamOp("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SetUserTeam(context.Background(), tt.userID, tt.teamID, tt.op)
			assert.ErrorIs(t, err, services.ErrBadSyncArgs)
		})
	}
}
