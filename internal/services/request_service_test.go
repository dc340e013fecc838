package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianyyz/ShareRidesV2Server/internal/apperr"
	"github.com/brianyyz/ShareRidesV2Server/internal/services"
)

func TestReconcileTeams(t *testing.T) {
	teamA := uuid.New()
	teamB := uuid.New()

	tests := []struct {
		name     string
		rideTeam *uuid.UUID
		userTeam *uuid.UUID
		wantTeam *uuid.UUID
		wantCode int
	}{
		{
			name: "both unset passes with no team",
		},
		{
			name:     "matching teams pass with that team",
			rideTeam: &teamA,
			userTeam: &teamA,
			wantTeam: &teamA,
		},
		{
			name:     "different teams rejected",
			rideTeam: &teamA,
			userTeam: &teamB,
			wantCode: apperr.CodeRequestTeamMismatch,
		},
		{
			name:     "ride has team, requester does not",
			rideTeam: &teamA,
			wantCode: apperr.CodeRequestTeamOneSided,
		},
		{
			name:     "requester has team, ride does not",
			userTeam: &teamB,
			wantCode: apperr.CodeRequestTeamOneSided,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.ReconcileTeams(tt.rideTeam, tt.userTeam)
			if tt.wantCode != 0 {
				require.NotNil(t, err)
				assert.Equal(t, tt.wantCode, err.Code)
				assert.Nil(t, got)
				return
			}
			require.Nil(t, err)
			if tt.wantTeam == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.wantTeam, *got)
			}
		})
	}
}
