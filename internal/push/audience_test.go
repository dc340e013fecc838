package push_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianyyz/ShareRidesV2Server/internal/push"
)

func TestToUser(t *testing.T) {
	userID := uuid.New()
	a := push.ToUser(userID)

	require.NotNil(t, a.UserID)
	assert.Equal(t, userID, *a.UserID)
	assert.Empty(t, a.Channel)
	assert.Equal(t, push.TeamAny, a.TeamFilter)
}

func TestMatchingTeam(t *testing.T) {
	teamID := uuid.New()

	withTeam := push.ToChannel("silentContent").MatchingTeam(&teamID)
	assert.Equal(t, push.TeamMatches, withTeam.TeamFilter)
	require.NotNil(t, withTeam.TeamID)
	assert.Equal(t, teamID, *withTeam.TeamID)

	teamless := push.ToChannel("silentContent").MatchingTeam(nil)
	assert.Equal(t, push.TeamAbsent, teamless.TeamFilter)
	assert.Nil(t, teamless.TeamID)
}

func TestAudienceBuildersCompose(t *testing.T) {
	owner := uuid.New()
	teamID := uuid.New()

	a := push.ToChannel("newRide").MatchingTeam(&teamID).ExcludingUser(owner)

	assert.Equal(t, "newRide", a.Channel)
	assert.Equal(t, push.TeamMatches, a.TeamFilter)
	require.NotNil(t, a.ExcludeUserID)
	assert.Equal(t, owner, *a.ExcludeUserID)

	b := push.ToChannel("someoneShares").ForUser(owner)
	require.NotNil(t, b.UserID)
	assert.Equal(t, owner, *b.UserID)
}
