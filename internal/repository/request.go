package repository

import (
	"context"
	"errors"
	"time"

	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

func (r *RequestRepository) Create(ctx context.Context, req *model.ChatRequest) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_requests (id, helper_id, requester_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, req.ID, req.HelperID, req.RequesterID, req.Status, req.CreatedAt)
	return err
}

// GetByID returns (nil, nil) when the request does not exist.
func (r *RequestRepository) GetByID(ctx context.Context, requestID string) (*model.ChatRequest, error) {
	var req model.ChatRequest
	err := r.pool.QueryRow(ctx, `
		SELECT id, helper_id, requester_id, status, session_id, created_at, responded_at
		FROM chat_requests WHERE id = $1
	`, requestID).Scan(&req.ID, &req.HelperID, &req.RequesterID, &req.Status,
		&req.SessionID, &req.CreatedAt, &req.RespondedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListPendingForHelper returns the helper's open inbox, newest first, with
// requester names joined in for display.
func (r *RequestRepository) ListPendingForHelper(ctx context.Context, helperID string) ([]*model.ChatRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT cr.id, cr.helper_id, cr.requester_id, cr.status, cr.session_id,
		       cr.created_at, cr.responded_at, u.username
		FROM chat_requests cr
		JOIN users u ON u.id = cr.requester_id
		WHERE cr.helper_id = $1 AND cr.status = 'pending'
		ORDER BY cr.created_at DESC
	`, helperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []*model.ChatRequest
	for rows.Next() {
		var req model.ChatRequest
		if err := rows.Scan(&req.ID, &req.HelperID, &req.RequesterID, &req.Status,
			&req.SessionID, &req.CreatedAt, &req.RespondedAt, &req.RequesterName); err != nil {
			return nil, err
		}
		reqs = append(reqs, &req)
	}
	return reqs, rows.Err()
}

// MarkResponded moves a request out of pending. The WHERE clause is the
// answered-exactly-once gate: of any concurrent responders, one sees
// true and the rest see false.
func (r *RequestRepository) MarkResponded(ctx context.Context, requestID, status string, respondedAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE chat_requests SET status = $2, responded_at = $3
		WHERE id = $1 AND status = 'pending'
	`, requestID, status, respondedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// AttachSession records the back-pointer to the session opened for an
// accepted request.
func (r *RequestRepository) AttachSession(ctx context.Context, requestID, sessionID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE chat_requests SET session_id = $2
		WHERE id = $1 AND status = 'accepted' AND session_id IS NULL
	`, requestID, sessionID)
	return err
}
