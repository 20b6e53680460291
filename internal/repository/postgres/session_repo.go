package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/limweiliang/stockroom/internal/errs"
	"github.com/limweiliang/stockroom/internal/model"
)

// SessionRepo implements SessionRepository using PostgreSQL.
type SessionRepo struct{ db *DB }

// NewSessionRepo constructs a session repository.
func NewSessionRepo(db *DB) *SessionRepo { return &SessionRepo{db: db} }

// Create inserts a session row.
func (r *SessionRepo) Create(ctx context.Context, sessionID string, userID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO sessions (session_id, user_id) VALUES ($1, $2)`,
		sessionID, userID)
	return err
}

// FindUser resolves a session id to the owning user's id and role.
func (r *SessionRepo) FindUser(ctx context.Context, sessionID string) (*model.SessionUser, error) {
	const q = `
SELECT u.user_id, u.role
FROM sessions AS s INNER JOIN users AS u ON u.user_id = s.user_id
WHERE s.session_id = $1`
	var su model.SessionUser
	if err := r.db.Pool.QueryRow(ctx, q, sessionID).Scan(&su.ID, &su.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrInvalidSession
		}
		return nil, err
	}
	return &su, nil
}

// Delete destroys a session row.
func (r *SessionRepo) Delete(ctx context.Context, sessionID string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrInvalidSession
	}
	return nil
}
