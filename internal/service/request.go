package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/model"

	"github.com/google/uuid"
)

var (
	ErrHelperNotFound      = errors.New("helper not found")
	ErrHelperUnavailable   = errors.New("helper is not available")
	ErrRequestNotFound     = errors.New("request not found")
	ErrNotRequestAddressee = errors.New("request is addressed to another helper")
	ErrAlreadyAnswered     = errors.New("request already answered")
	ErrInvalidDecision     = errors.New("decision must be accept or decline")
)

// RequestStore persists chat requests. Get/List methods return (nil, nil)
// when the record is absent.
type RequestStore interface {
	Create(ctx context.Context, req *model.ChatRequest) error
	GetByID(ctx context.Context, requestID string) (*model.ChatRequest, error)
	ListPendingForHelper(ctx context.Context, helperID string) ([]*model.ChatRequest, error)
	MarkResponded(ctx context.Context, requestID, status string, respondedAt time.Time) (bool, error)
	AttachSession(ctx context.Context, requestID, sessionID string) error
}

// HelperDirectory is the narrow surface into the helper directory: read a
// profile, flip the availability bit, browse availables.
type HelperDirectory interface {
	Get(ctx context.Context, userID string) (*model.HelperProfile, error)
	SetAvailability(ctx context.Context, userID string, available bool) (bool, error)
	ListAvailable(ctx context.Context, limit int) ([]*model.HelperProfile, error)
}

// SessionOpener is the slice of the chat service the accept transition
// needs.
type SessionOpener interface {
	OpenSession(ctx context.Context, requestID, requesterID, helperID string) (*model.ChatSession, error)
}

// RequestService owns the request lifecycle: pending at creation, then
// exactly one accept-or-decline transition by the addressed helper.
type RequestService struct {
	requests RequestStore
	helpers  HelperDirectory
	users    UserDirectory
	opener   SessionOpener
	notifier Notifier
	hub      Publisher

	// helperResponseType is the event type the helper's own feed carries on
	// chatStarted (see config.HelperResponseEvent).
	helperResponseType string
}

func NewRequestService(requests RequestStore, helpers HelperDirectory, users UserDirectory,
	opener SessionOpener, notifier Notifier, hub Publisher, helperResponseType string) *RequestService {
	if helperResponseType == "" {
		helperResponseType = model.NotificationAccept
	}
	return &RequestService{
		requests:           requests,
		helpers:            helpers,
		users:              users,
		opener:             opener,
		notifier:           notifier,
		hub:                hub,
		helperResponseType: helperResponseType,
	}
}

// Create records a pending request toward an available helper. Concurrent
// duplicate pending requests to the same helper are allowed; the product
// treats each as a separate ask. Notification and push failures are
// logged, never returned: the request stands once persisted.
func (s *RequestService) Create(ctx context.Context, requesterID, helperID string) (*model.ChatRequest, error) {
	helper, err := s.helpers.Get(ctx, helperID)
	if err != nil {
		return nil, fmt.Errorf("lookup helper: %w", err)
	}
	if helper == nil {
		return nil, ErrHelperNotFound
	}
	if !helper.Available {
		return nil, ErrHelperUnavailable
	}

	req := &model.ChatRequest{
		ID:          uuid.NewString(),
		HelperID:    helperID,
		RequesterID: requesterID,
		Status:      model.RequestPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	text := "Someone would like to talk to you"
	if requester, err := s.users.GetByID(ctx, requesterID); err == nil && requester != nil {
		req.RequesterName = requester.Username
		text = requester.Username + " would like to talk to you"
	}

	if _, err := s.notifier.Notify(ctx, helperID, model.NotificationRequest, text, &req.ID, nil); err != nil {
		log.Printf("[Request] notify helper %s about %s: %v", helperID, req.ID, err)
	}

	s.hub.PublishToUser(helperID, model.EventNewRequest, req)
	s.hub.PublishToUser(requesterID, model.EventRequestStatus, req)

	return req, nil
}

// Respond answers a pending request. Only the addressed helper may act,
// and only once: the conditional update in the store is the gate, so of
// two racing responders the loser observes a conflict. On accept the
// session is opened and its id attached before anyone is notified.
func (s *RequestService) Respond(ctx context.Context, requestID, responderID, decision string) (*model.ChatRequest, *model.ChatSession, error) {
	if decision != model.DecisionAccept && decision != model.DecisionDecline {
		return nil, nil, ErrInvalidDecision
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if req == nil {
		return nil, nil, ErrRequestNotFound
	}
	if !IsRequestAddressee(responderID, req) {
		return nil, nil, ErrNotRequestAddressee
	}
	if req.Status != model.RequestPending {
		return nil, nil, ErrAlreadyAnswered
	}

	status := model.RequestDeclined
	if decision == model.DecisionAccept {
		status = model.RequestAccepted
	}
	now := time.Now().UTC()

	won, err := s.requests.MarkResponded(ctx, requestID, status, now)
	if err != nil {
		return nil, nil, fmt.Errorf("transition request: %w", err)
	}
	if !won {
		return nil, nil, ErrAlreadyAnswered
	}
	req.Status = status
	req.RespondedAt = &now

	if status == model.RequestDeclined {
		if _, err := s.notifier.Notify(ctx, req.RequesterID, model.NotificationDecline,
			"Your chat request was declined", &req.ID, nil); err != nil {
			log.Printf("[Request] notify requester %s about decline of %s: %v", req.RequesterID, req.ID, err)
		}
		update := model.RequestUpdatePayload{Request: req}
		s.hub.PublishToUser(req.RequesterID, model.EventRequestUpdate, update)
		s.hub.PublishToUser(req.HelperID, model.EventRequestUpdate, update)
		return req, nil, nil
	}

	session, err := s.opener.OpenSession(ctx, req.ID, req.RequesterID, req.HelperID)
	if err != nil {
		return nil, nil, fmt.Errorf("open session for %s: %w", req.ID, err)
	}
	if err := s.requests.AttachSession(ctx, req.ID, session.ID); err != nil {
		return nil, nil, fmt.Errorf("attach session %s to %s: %w", session.ID, req.ID, err)
	}
	req.SessionID = &session.ID

	if _, err := s.notifier.Notify(ctx, req.RequesterID, model.NotificationAccept,
		"Your chat request was accepted", &req.ID, &session.ID); err != nil {
		log.Printf("[Request] notify requester %s about accept of %s: %v", req.RequesterID, req.ID, err)
	}

	update := model.RequestUpdatePayload{Request: req, Session: session}
	s.hub.PublishToUser(req.RequesterID, model.EventRequestUpdate, update)
	s.hub.PublishToUser(req.HelperID, model.EventRequestUpdate, update)
	s.hub.PublishToUser(req.HelperID, model.EventChatStarted, model.ChatStartedPayload{
		Type:    s.helperResponseType,
		Request: req,
		Session: session,
	})

	return req, session, nil
}

// ListPending returns the caller's open inbox. Only registered helpers
// have one.
func (s *RequestService) ListPending(ctx context.Context, callerID string) ([]*model.ChatRequest, error) {
	helper, err := s.helpers.Get(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !IsHelperOwner(callerID, helper) {
		return nil, ErrNotHelper
	}
	return s.requests.ListPendingForHelper(ctx, callerID)
}
