package model

import "encoding/json"

// WSEvent is the frame exchanged on the realtime channel, both directions.
type WSEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Server→client event names. These are wire-visible and must stay stable.
const (
	EventNewRequest     = "newRequest"
	EventRequestStatus  = "requestStatus"
	EventRequestUpdate  = "requestUpdate"
	EventChatStarted    = "chatStarted"
	EventNewMessage     = "newMessage"
	EventNewMessageNote = "newMessageNotification"
)

// Client→server frame types handled by the WS connection loop.
const (
	FramePing         = "ping"
	FramePong         = "pong"
	FrameJoinSession  = "joinSession"
	FrameLeaveSession = "leaveSession"
)

// WSSessionRef is the payload of joinSession/leaveSession frames.
type WSSessionRef struct {
	SessionID string `json:"session_id"`
}

// RequestUpdatePayload accompanies requestUpdate pushes; Session is set
// only on accept.
type RequestUpdatePayload struct {
	Request *ChatRequest `json:"request"`
	Session *ChatSession `json:"session,omitempty"`
}

// ChatStartedPayload accompanies the chatStarted push to the helper. Type
// carries the configurable event naming for the helper's own feed.
type ChatStartedPayload struct {
	Type    string       `json:"type"`
	Request *ChatRequest `json:"request"`
	Session *ChatSession `json:"session"`
}

// MessageNotePayload accompanies newMessageNotification pushes. Preview is
// at most PreviewLen characters of the message content.
type MessageNotePayload struct {
	SessionID string `json:"session_id"`
	SenderID  string `json:"sender_id"`
	Preview   string `json:"preview"`
}

// PreviewLen caps the content preview carried by newMessageNotification.
const PreviewLen = 30
