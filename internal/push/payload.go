package push

import "time"

// Alert keys routed by the client UI. The values are part of the wire
// contract and must not change.
const (
	KeyNewRide             = "1"
	KeyRideChanged         = "2"
	KeyRideCancelled       = "3"
	KeyRequestApproved     = "4"
	KeyRequestPended       = "5"
	KeyRequestNeedsAction  = "6"
	KeyMessageToPassengers = "7"
	KeyMessageToOwner      = "8"
	KeyRequestWithdrawn    = "9"
	KeyRiderJoined         = "10"
	KeyTeamApproved        = "11"
	KeyTeamPending         = "12"
	KeyTeamDeleted         = "13"
	KeyTeamLeft            = "14"
	KeyAdmin               = "99"
)

// Payload is the push body handed to the delivery channel. Zero-valued
// fields are omitted from the wire data.
type Payload struct {
	Key              string
	Alert            string
	Badge            int
	Refresh          string
	ContentAvailable bool
	ExpireAt         *time.Time
}

// Silent builds a content-available wake that tells clients to refresh the
// named entity from the server.
func Silent(refresh string) Payload {
	return Payload{Refresh: refresh, ContentAvailable: true}
}

// Data renders the client-facing notification fields.
func (p Payload) Data() map[string]interface{} {
	data := make(map[string]interface{}, 5)
	if p.Key != "" {
		data["key"] = p.Key
	}
	if p.Alert != "" {
		data["alert"] = p.Alert
	}
	if p.Badge > 0 {
		data["badge"] = p.Badge
	}
	if p.Refresh != "" {
		data["refresh"] = p.Refresh
	}
	if p.ContentAvailable {
		data["content-available"] = 1
	}
	return data
}
