package push

import (
	"github.com/google/uuid"
)

// TeamFilter narrows an audience by the team tag on installations.
type TeamFilter int

const (
	// TeamAny applies no team condition.
	TeamAny TeamFilter = iota
	// TeamMatches selects installations tagged with a specific team.
	TeamMatches
	// TeamAbsent selects installations with no team tag at all.
	TeamAbsent
)

// Audience describes which installations receive a payload. Filters combine
// with AND; an empty audience would address every installation, so every
// workflow sets at least one filter.
type Audience struct {
	Channel       string
	UserID        *uuid.UUID
	ExcludeUserID *uuid.UUID
	TeamFilter    TeamFilter
	TeamID        *uuid.UUID
}

// ToUser targets every installation owned by one user.
func ToUser(userID uuid.UUID) Audience {
	return Audience{UserID: &userID}
}

// ToChannel targets installations subscribed to the named channel.
func ToChannel(channel string) Audience {
	return Audience{Channel: channel}
}

// MatchingTeam constrains the audience to the ride/request team: a set team
// must match exactly, an unset team selects team-less installations.
func (a Audience) MatchingTeam(teamID *uuid.UUID) Audience {
	if teamID != nil {
		a.TeamFilter = TeamMatches
		a.TeamID = teamID
	} else {
		a.TeamFilter = TeamAbsent
	}
	return a
}

// ExcludingUser drops one user's installations, e.g. the actor who caused
// the notification.
func (a Audience) ExcludingUser(userID uuid.UUID) Audience {
	a.ExcludeUserID = &userID
	return a
}

// ForUser constrains a channel audience to one user's installations.
func (a Audience) ForUser(userID uuid.UUID) Audience {
	a.UserID = &userID
	return a
}
