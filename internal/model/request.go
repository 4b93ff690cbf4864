package model

import "time"

// Chat request lifecycle states. A request is answered exactly once; the
// status never leaves accepted or declined.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestDeclined = "declined"
)

// Decisions a helper may take on a pending request.
const (
	DecisionAccept  = "accept"
	DecisionDecline = "decline"
)

// ChatRequest is a requester's ask for a chat with a specific helper.
// SessionID is set only when Status is accepted.
type ChatRequest struct {
	ID          string     `json:"id"`
	HelperID    string     `json:"helper_id"`
	RequesterID string     `json:"requester_id"`
	Status      string     `json:"status"`
	SessionID   *string    `json:"session_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`

	// RequesterName is assembled read-side for helper-facing lists.
	RequesterName string `json:"requester_name,omitempty"`
}

// CreateRequestPayload is the body of POST /chat/requests.
type CreateRequestPayload struct {
	HelperID string `json:"helper_id"`
}

// RespondPayload is the body of POST /chat/requests/:id/respond.
type RespondPayload struct {
	Decision string `json:"decision"`
}
