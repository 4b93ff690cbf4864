package repository

import (
	"context"
	"errors"

	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HelperRepository fronts the helper directory. The engine reads
// availability and flips the boolean; profile management lives elsewhere.
type HelperRepository struct {
	pool *pgxpool.Pool
}

func NewHelperRepository(pool *pgxpool.Pool) *HelperRepository {
	return &HelperRepository{pool: pool}
}

// Get returns (nil, nil) when the user has no helper profile.
func (r *HelperRepository) Get(ctx context.Context, userID string) (*model.HelperProfile, error) {
	var p model.HelperProfile
	err := r.pool.QueryRow(ctx, `
		SELECT hp.user_id, u.username, hp.headline, hp.available, hp.verified, hp.created_at
		FROM helper_profiles hp
		JOIN users u ON u.id = hp.user_id
		WHERE hp.user_id = $1
	`, userID).Scan(&p.UserID, &p.Username, &p.Headline, &p.Available, &p.Verified, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SetAvailability reports whether a profile row was actually updated.
func (r *HelperRepository) SetAvailability(ctx context.Context, userID string, available bool) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE helper_profiles SET available = $2 WHERE user_id = $1
	`, userID, available)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListAvailable returns helpers currently accepting requests, verified
// first, newest profile first within each group.
func (r *HelperRepository) ListAvailable(ctx context.Context, limit int) ([]*model.HelperProfile, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT hp.user_id, u.username, hp.headline, hp.available, hp.verified, hp.created_at
		FROM helper_profiles hp
		JOIN users u ON u.id = hp.user_id
		WHERE hp.available = TRUE
		ORDER BY hp.verified DESC, hp.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var helpers []*model.HelperProfile
	for rows.Next() {
		var p model.HelperProfile
		if err := rows.Scan(&p.UserID, &p.Username, &p.Headline, &p.Available, &p.Verified, &p.CreatedAt); err != nil {
			return nil, err
		}
		helpers = append(helpers, &p)
	}
	return helpers, rows.Err()
}
