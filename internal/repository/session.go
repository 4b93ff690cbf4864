package repository

import (
	"context"
	"errors"
	"time"

	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, s *model.ChatSession) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_sessions (id, request_id, requester_id, helper_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, s.ID, s.RequestID, s.RequesterID, s.HelperID, s.Status, s.CreatedAt)
	return err
}

// GetByID returns (nil, nil) when the session does not exist.
func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*model.ChatSession, error) {
	return r.getOne(ctx, `
		SELECT id, request_id, requester_id, helper_id, status, created_at, updated_at
		FROM chat_sessions WHERE id = $1
	`, sessionID)
}

// GetByRequestID returns (nil, nil) when no session was opened for the
// request.
func (r *SessionRepository) GetByRequestID(ctx context.Context, requestID string) (*model.ChatSession, error) {
	return r.getOne(ctx, `
		SELECT id, request_id, requester_id, helper_id, status, created_at, updated_at
		FROM chat_sessions WHERE request_id = $1
	`, requestID)
}

func (r *SessionRepository) getOne(ctx context.Context, query, arg string) (*model.ChatSession, error) {
	var s model.ChatSession
	err := r.pool.QueryRow(ctx, query, arg).Scan(&s.ID, &s.RequestID, &s.RequesterID,
		&s.HelperID, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListForUser returns every session the user participates in, most recent
// activity first.
func (r *SessionRepository) ListForUser(ctx context.Context, userID string) ([]*model.ChatSession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, request_id, requester_id, helper_id, status, created_at, updated_at
		FROM chat_sessions
		WHERE requester_id = $1 OR helper_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*model.ChatSession
	for rows.Next() {
		var s model.ChatSession
		if err := rows.Scan(&s.ID, &s.RequestID, &s.RequesterID, &s.HelperID,
			&s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}

// InsertMessage appends to the session log and advances the session's
// updated_at in one transaction. The returned message carries the
// store-assigned seq and timestamp; those exact values are what gets
// broadcast.
func (r *SessionRepository) InsertMessage(ctx context.Context, m *model.Message) (*model.Message, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO chat_messages (id, session_id, sender_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING seq, created_at
	`, m.ID, m.SessionID, m.SenderID, m.Content).Scan(&m.Seq, &m.CreatedAt)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE chat_sessions SET updated_at = $2 WHERE id = $1
	`, m.SessionID, m.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages returns the session log in append order.
func (r *SessionRepository) ListMessages(ctx context.Context, sessionID string) ([]model.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, sender_id, content, seq, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.SenderID, &m.Content, &m.Seq, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Close moves active→closed. Reports false when the session was already
// closed (or absent).
func (r *SessionRepository) Close(ctx context.Context, sessionID string, closedAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE chat_sessions SET status = 'closed', updated_at = $2
		WHERE id = $1 AND status = 'active'
	`, sessionID, closedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
