package model

import "time"

// Session lifecycle states. active→closed is terminal.
const (
	SessionActive = "active"
	SessionClosed = "closed"
)

// Participant roles within a session. Every session has exactly one of each.
const (
	RoleRequester = "requester"
	RoleHelper    = "helper"
)

// MaxMessageLen is the limit on trimmed message content, in characters.
const MaxMessageLen = 2000

// Participant pairs a user with their role in a session.
type Participant struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// ChatSession is the two-party conversation opened when a request is
// accepted. Exactly one session exists per accepted request.
type ChatSession struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id"`
	RequesterID string    `json:"requester_id"`
	HelperID    string    `json:"helper_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Participants assembles the participant list from the two columns.
func (s *ChatSession) Participants() []Participant {
	return []Participant{
		{UserID: s.RequesterID, Role: RoleRequester},
		{UserID: s.HelperID, Role: RoleHelper},
	}
}

// HasParticipant reports whether userID is one of the two parties.
func (s *ChatSession) HasParticipant(userID string) bool {
	return userID == s.RequesterID || userID == s.HelperID
}

// Partner returns the other party's user id, or "" if userID is not a
// participant.
func (s *ChatSession) Partner(userID string) string {
	switch userID {
	case s.RequesterID:
		return s.HelperID
	case s.HelperID:
		return s.RequesterID
	}
	return ""
}

// Message is one appended entry in a session's log. Messages are never
// edited or deleted; Seq is the append order assigned by the store.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	Seq       int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageView is a message annotated for a specific caller. IsOwn is
// computed at read time, never stored.
type MessageView struct {
	Message
	IsOwn bool `json:"is_own"`
}

// SessionView is the per-caller shape returned by get-session.
type SessionView struct {
	ID           string        `json:"id"`
	RequestID    string        `json:"request_id"`
	Status       string        `json:"status"`
	Participants []Participant `json:"participants"`
	Messages     []MessageView `json:"messages"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// SessionSummary is one row of a user's session list.
type SessionSummary struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id"`
	PartnerID   string    `json:"partner_id"`
	PartnerName string    `json:"partner_name,omitempty"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SendMessagePayload is the body of POST /chat/sessions/:id/messages.
type SendMessagePayload struct {
	Content string `json:"content"`
}
