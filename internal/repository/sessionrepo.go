package repository

import (
	"context"

	"github.com/limweiliang/stockroom/internal/model"
)

// SessionRepository maps opaque session tokens to users. A session exists
// from login until logout; absence means unauthenticated.
type SessionRepository interface {
	// Create inserts a session row for userID.
	Create(ctx context.Context, sessionID string, userID int64) error
	// FindUser resolves a session id to the owning user's id and role.
	// Unknown session ids yield errs.ErrInvalidSession.
	FindUser(ctx context.Context, sessionID string) (*model.SessionUser, error)
	// Delete destroys a session row.
	Delete(ctx context.Context, sessionID string) error
}
