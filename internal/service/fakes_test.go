package service

import (
	"context"
	"sync"
	"time"

	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/model"
)

// memStore is an in-memory stand-in for the pgx repositories. It mirrors
// their contracts: Get/List return (nil, nil) on absence, MarkResponded
// and Close are conditional updates, and everything is safe for
// concurrent use.
type memStore struct {
	mu            sync.Mutex
	users         map[string]*model.User
	helpers       map[string]*model.HelperProfile
	requests      map[string]*model.ChatRequest
	sessions      map[string]*model.ChatSession
	messages      map[string][]model.Message
	notifications []*model.Notification
	seq           int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*model.User),
		helpers:  make(map[string]*model.HelperProfile),
		requests: make(map[string]*model.ChatRequest),
		sessions: make(map[string]*model.ChatSession),
		messages: make(map[string][]model.Message),
	}
}

func (m *memStore) addUser(id, username string) {
	m.users[id] = &model.User{ID: id, Username: username, CreatedAt: time.Now().UTC()}
}

func (m *memStore) addHelper(id, username string, available bool) {
	m.addUser(id, username)
	m.helpers[id] = &model.HelperProfile{UserID: id, Username: username, Available: available, CreatedAt: time.Now().UTC()}
}

// UserDirectory

func (m *memStore) GetByID(_ context.Context, userID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// HelperDirectory

func (m *memStore) Get(_ context.Context, userID string) (*model.HelperProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.helpers[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) SetAvailability(_ context.Context, userID string, available bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.helpers[userID]
	if !ok {
		return false, nil
	}
	p.Available = available
	return true, nil
}

func (m *memStore) ListAvailable(_ context.Context, _ int) ([]*model.HelperProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.HelperProfile
	for _, p := range m.helpers {
		if p.Available {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// RequestStore

func (m *memStore) Create(_ context.Context, req *model.ChatRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *req
	m.requests[req.ID] = &cp
	return nil
}

func (m *memStore) GetRequest(_ context.Context, requestID string) (*model.ChatRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[requestID]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (m *memStore) ListPendingForHelper(_ context.Context, helperID string) ([]*model.ChatRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ChatRequest
	for _, req := range m.requests {
		if req.HelperID == helperID && req.Status == model.RequestPending {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) MarkResponded(_ context.Context, requestID, status string, respondedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[requestID]
	if !ok || req.Status != model.RequestPending {
		return false, nil
	}
	req.Status = status
	at := respondedAt
	req.RespondedAt = &at
	return true, nil
}

func (m *memStore) AttachSession(_ context.Context, requestID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req, ok := m.requests[requestID]; ok && req.Status == model.RequestAccepted && req.SessionID == nil {
		sid := sessionID
		req.SessionID = &sid
	}
	return nil
}

// requestStoreAdapter renames GetRequest to the interface's GetByID; the
// memStore's own GetByID belongs to UserDirectory.
type requestStoreAdapter struct{ *memStore }

func (a requestStoreAdapter) GetByID(ctx context.Context, requestID string) (*model.ChatRequest, error) {
	return a.GetRequest(ctx, requestID)
}

// SessionStore

type sessionStoreAdapter struct{ *memStore }

func (a sessionStoreAdapter) Create(_ context.Context, s *model.ChatSession) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := *s
	a.sessions[s.ID] = &cp
	return nil
}

func (a sessionStoreAdapter) GetByID(_ context.Context, sessionID string) (*model.ChatSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (a sessionStoreAdapter) GetByRequestID(_ context.Context, requestID string) (*model.ChatSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range a.sessions {
		if s.RequestID == requestID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (a sessionStoreAdapter) ListForUser(_ context.Context, userID string) ([]*model.ChatSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []*model.ChatSession
	for _, s := range a.sessions {
		if s.HasParticipant(userID) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (a sessionStoreAdapter) InsertMessage(_ context.Context, msg *model.Message) (*model.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	msg.Seq = a.seq
	msg.CreatedAt = time.Now().UTC()
	a.messages[msg.SessionID] = append(a.messages[msg.SessionID], *msg)
	if s, ok := a.sessions[msg.SessionID]; ok {
		s.UpdatedAt = msg.CreatedAt
	}
	return msg, nil
}

func (a sessionStoreAdapter) ListMessages(_ context.Context, sessionID string) ([]model.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.Message(nil), a.messages[sessionID]...), nil
}

func (a sessionStoreAdapter) Close(_ context.Context, sessionID string, closedAt time.Time) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[sessionID]
	if !ok || s.Status != model.SessionActive {
		return false, nil
	}
	s.Status = model.SessionClosed
	s.UpdatedAt = closedAt
	return true, nil
}

// NotificationStore

type notificationStoreAdapter struct{ *memStore }

func (a notificationStoreAdapter) Create(_ context.Context, n *model.Notification) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := *n
	a.notifications = append(a.notifications, &cp)
	return nil
}

func (a notificationStoreAdapter) GetByID(_ context.Context, notificationID string) (*model.Notification, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, n := range a.notifications {
		if n.ID == notificationID {
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

func (a notificationStoreAdapter) ListUnread(_ context.Context, recipientID string) ([]*model.Notification, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []*model.Notification
	// newest first: iterate backwards over insertion order
	for i := len(a.notifications) - 1; i >= 0; i-- {
		n := a.notifications[i]
		if n.RecipientID == recipientID && !n.Read {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (a notificationStoreAdapter) MarkRead(_ context.Context, notificationID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, n := range a.notifications {
		if n.ID == notificationID {
			n.Read = true
		}
	}
	return nil
}

func (a notificationStoreAdapter) recipientNotes(recipientID string) []*model.Notification {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []*model.Notification
	for _, n := range a.notifications {
		if n.RecipientID == recipientID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out
}

// testEnv wires the services against the in-memory store and recording
// hub the way cmd/server wires them against Postgres and the dispatcher.
type testEnv struct {
	store         *memStore
	noteStore     notificationStoreAdapter
	hub           *recordingHub
	notifications *NotificationService
	chat          *ChatService
	requests      *RequestService
	helpers       *HelperService
}

func newTestEnv() *testEnv {
	st := newMemStore()
	hub := newRecordingHub()
	noteStore := notificationStoreAdapter{st}
	notifications := NewNotificationService(noteStore, st)
	chat := NewChatService(sessionStoreAdapter{st}, st, notifications, hub)
	requests := NewRequestService(requestStoreAdapter{st}, st, st, chat, notifications, hub, "")
	return &testEnv{
		store:         st,
		noteStore:     noteStore,
		hub:           hub,
		notifications: notifications,
		chat:          chat,
		requests:      requests,
		helpers:       NewHelperService(st),
	}
}

// recordingHub implements Publisher and records every publish in call
// order.
type pubEvent struct {
	Scope   string // "user" or "session"
	Target  string
	Event   string
	Payload any
}

type recordingHub struct {
	mu     sync.Mutex
	events []pubEvent
	joined map[string]map[string]bool // sessionID → userID → joined
}

func newRecordingHub() *recordingHub {
	return &recordingHub{joined: make(map[string]map[string]bool)}
}

func (h *recordingHub) PublishToUser(userID, event string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, pubEvent{Scope: "user", Target: userID, Event: event, Payload: payload})
}

func (h *recordingHub) PublishToSession(sessionID, event string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, pubEvent{Scope: "session", Target: sessionID, Event: event, Payload: payload})
}

func (h *recordingHub) SessionHasUser(sessionID, userID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.joined[sessionID][userID]
}

func (h *recordingHub) join(sessionID, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.joined[sessionID] == nil {
		h.joined[sessionID] = make(map[string]bool)
	}
	h.joined[sessionID][userID] = true
}

func (h *recordingHub) byEvent(event string) []pubEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []pubEvent
	for _, e := range h.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (h *recordingHub) sessionEvents(sessionID string) []pubEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []pubEvent
	for _, e := range h.events {
		if e.Scope == "session" && e.Target == sessionID {
			out = append(out, e)
		}
	}
	return out
}
