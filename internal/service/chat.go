package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/model"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotParticipant  = errors.New("not a session participant")
	ErrSessionClosed   = errors.New("session is closed")
	ErrEmptyMessage    = errors.New("message content is empty")
	ErrMessageTooLong  = errors.New("message content exceeds limit")
)

// SessionStore persists sessions and their append-only message logs.
// All Get methods return (nil, nil) when the record is absent.
type SessionStore interface {
	Create(ctx context.Context, s *model.ChatSession) error
	GetByID(ctx context.Context, sessionID string) (*model.ChatSession, error)
	GetByRequestID(ctx context.Context, requestID string) (*model.ChatSession, error)
	ListForUser(ctx context.Context, userID string) ([]*model.ChatSession, error)
	InsertMessage(ctx context.Context, m *model.Message) (*model.Message, error)
	ListMessages(ctx context.Context, sessionID string) ([]model.Message, error)
	Close(ctx context.Context, sessionID string, closedAt time.Time) (bool, error)
}

// ChatService owns sessions and their message logs. Appends to the same
// session are funneled through a per-session mutex so that assigned order,
// stored order, and broadcast order all agree; different sessions never
// contend.
type ChatService struct {
	sessions SessionStore
	users    UserDirectory
	notifier Notifier
	hub      Publisher

	// locks maps sessionID → *sync.Mutex. Entries are permanent for the
	// process lifetime; sessions are few and small.
	locks sync.Map
}

func NewChatService(sessions SessionStore, users UserDirectory, notifier Notifier, hub Publisher) *ChatService {
	return &ChatService{sessions: sessions, users: users, notifier: notifier, hub: hub}
}

// OpenSession creates the session for an accepted request. Called only
// from the accept transition; the unique index on request_id backs the
// one-session-per-request invariant.
func (s *ChatService) OpenSession(ctx context.Context, requestID, requesterID, helperID string) (*model.ChatSession, error) {
	sess := &model.ChatSession{
		ID:          uuid.NewString(),
		RequestID:   requestID,
		RequesterID: requesterID,
		HelperID:    helperID,
		Status:      model.SessionActive,
		CreatedAt:   time.Now().UTC(),
	}
	sess.UpdatedAt = sess.CreatedAt
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// AppendMessage validates, persists, and fans out one message. The stored
// id/timestamp are exactly what subscribers receive. The durable fallback
// notification is written only when the other participant is not joined to
// the session right now.
func (s *ChatService) AppendMessage(ctx context.Context, sessionID, senderID, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > model.MaxMessageLen {
		return nil, ErrMessageTooLong
	}

	// Single writer per session: the lock spans persist and broadcast so
	// broadcast order equals append order.
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if !IsSessionParticipant(senderID, sess) {
		return nil, ErrNotParticipant
	}
	if sess.Status != model.SessionActive {
		return nil, ErrSessionClosed
	}

	msg, err := s.sessions.InsertMessage(ctx, &model.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		SenderID:  senderID,
		Content:   content,
	})
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	s.hub.PublishToSession(sessionID, model.EventNewMessage, msg)

	partner := sess.Partner(senderID)
	preview := contentPreview(content)
	s.hub.PublishToUser(partner, model.EventNewMessageNote, model.MessageNotePayload{
		SessionID: sessionID,
		SenderID:  senderID,
		Preview:   preview,
	})

	if !s.hub.SessionHasUser(sessionID, partner) {
		if _, err := s.notifier.Notify(ctx, partner, model.NotificationMessage, "New message: "+preview, nil, &sessionID); err != nil {
			log.Printf("[Chat] notify %s about message in %s: %v", partner, sessionID, err)
		}
	}

	return msg, nil
}

// GetSession returns the caller's view of a session, each message
// annotated with whether the caller wrote it.
func (s *ChatService) GetSession(ctx context.Context, sessionID, callerID string) (*model.SessionView, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return s.assembleView(ctx, sess, callerID)
}

// GetSessionByRequest resolves the session opened for an accepted request.
func (s *ChatService) GetSessionByRequest(ctx context.Context, requestID, callerID string) (*model.SessionView, error) {
	sess, err := s.sessions.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return s.assembleView(ctx, sess, callerID)
}

func (s *ChatService) assembleView(ctx context.Context, sess *model.ChatSession, callerID string) (*model.SessionView, error) {
	if !IsSessionParticipant(callerID, sess) {
		return nil, ErrNotParticipant
	}

	msgs, err := s.sessions.ListMessages(ctx, sess.ID)
	if err != nil {
		return nil, err
	}

	views := make([]model.MessageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, model.MessageView{Message: m, IsOwn: m.SenderID == callerID})
	}

	return &model.SessionView{
		ID:           sess.ID,
		RequestID:    sess.RequestID,
		Status:       sess.Status,
		Participants: sess.Participants(),
		Messages:     views,
		CreatedAt:    sess.CreatedAt,
		UpdatedAt:    sess.UpdatedAt,
	}, nil
}

// ListSessions returns the caller's sessions, most recent activity first,
// with partner names assembled by explicit lookup.
func (s *ChatService) ListSessions(ctx context.Context, callerID string) ([]*model.SessionSummary, error) {
	sessions, err := s.sessions.ListForUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		role := model.RoleRequester
		if sess.HelperID == callerID {
			role = model.RoleHelper
		}
		sum := &model.SessionSummary{
			ID:        sess.ID,
			RequestID: sess.RequestID,
			PartnerID: sess.Partner(callerID),
			Role:      role,
			Status:    sess.Status,
			CreatedAt: sess.CreatedAt,
			UpdatedAt: sess.UpdatedAt,
		}
		if partner, err := s.users.GetByID(ctx, sum.PartnerID); err == nil && partner != nil {
			sum.PartnerName = partner.Username
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

// CloseSession moves a session to its terminal state. Closing an already
// closed session is a conflict, as is any later append.
func (s *ChatService) CloseSession(ctx context.Context, sessionID, callerID string) error {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrSessionNotFound
	}
	if !IsSessionParticipant(callerID, sess) {
		return ErrNotParticipant
	}

	closed, err := s.sessions.Close(ctx, sessionID, time.Now().UTC())
	if err != nil {
		return err
	}
	if !closed {
		return ErrSessionClosed
	}
	return nil
}

// IsParticipant is the transport-layer check used before a connection may
// join a session's realtime group.
func (s *ChatService) IsParticipant(ctx context.Context, sessionID, userID string) (bool, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if sess == nil {
		return false, ErrSessionNotFound
	}
	return IsSessionParticipant(userID, sess), nil
}

func (s *ChatService) sessionLock(sessionID string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// contentPreview truncates on rune boundaries for the unread ping.
func contentPreview(content string) string {
	runes := []rune(content)
	if len(runes) <= model.PreviewLen {
		return content
	}
	return string(runes[:model.PreviewLen])
}
