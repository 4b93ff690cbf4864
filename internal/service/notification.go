package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/model"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("not the notification recipient")
)

// NotificationStore is the durable outbox. All Get/List methods return
// (nil, nil) when the record is absent.
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	GetByID(ctx context.Context, notificationID string) (*model.Notification, error)
	ListUnread(ctx context.Context, recipientID string) ([]*model.Notification, error)
	MarkRead(ctx context.Context, notificationID string) error
}

// UserDirectory is the narrow lookup into the external identity service.
type UserDirectory interface {
	GetByID(ctx context.Context, userID string) (*model.User, error)
}

// Notifier is what the request and chat services see of the outbox.
type Notifier interface {
	Notify(ctx context.Context, recipientID, notifType, message string, requestID, sessionID *string) (*model.Notification, error)
}

// NotificationService owns the durable notification records a user sees
// until they acknowledge them.
type NotificationService struct {
	store NotificationStore
	users UserDirectory
}

func NewNotificationService(store NotificationStore, users UserDirectory) *NotificationService {
	return &NotificationService{store: store, users: users}
}

// Notify creates one discrete record per call. Repeated identical events
// are intentionally not deduplicated.
func (s *NotificationService) Notify(ctx context.Context, recipientID, notifType, message string, requestID, sessionID *string) (*model.Notification, error) {
	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("lookup recipient: %w", err)
	}
	if recipient == nil {
		return nil, ErrUserNotFound
	}

	n := &model.Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Type:        notifType,
		Message:     message,
		RequestID:   requestID,
		SessionID:   sessionID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// ListUnread returns the caller's unread notifications, newest first.
func (s *NotificationService) ListUnread(ctx context.Context, userID string) ([]*model.Notification, error) {
	return s.store.ListUnread(ctx, userID)
}

// MarkRead acknowledges a notification. Only the recipient may do so, and
// acknowledging twice succeeds with the unchanged record.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, callerID string) (*model.Notification, error) {
	n, err := s.store.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotificationNotFound
	}
	if n.RecipientID != callerID {
		return nil, ErrNotRecipient
	}
	if n.Read {
		return n, nil
	}
	if err := s.store.MarkRead(ctx, notificationID); err != nil {
		return nil, err
	}
	n.Read = true
	return n, nil
}
