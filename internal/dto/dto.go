package dto

// ErrorResponse is the uniform error body. Code carries the numeric
// workflow code when the failure is a business-rule rejection, zero
// otherwise.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// SubscribeRequest names the channel to add across the caller's devices.
type SubscribeRequest struct {
	Channel string `json:"channel"`
	UserID  string `json:"userId"`
}

// MessageRequest carries a free-text relay message for a ride.
type MessageRequest struct {
	Message string `json:"message"`
}

// NotifiedResponse lists the usernames a relay message reached.
type NotifiedResponse struct {
	Notified []string `json:"notified"`
}

// PendingResponse reports whether anything awaits the caller's approval,
// along with the waiting items themselves.
type PendingResponse struct {
	HasOutstanding bool        `json:"hasOutstanding"`
	Items          interface{} `json:"items"`
}

// HasRequestsResponse answers the team-has-requests check.
type HasRequestsResponse struct {
	HasRequests bool `json:"hasRequests"`
}
