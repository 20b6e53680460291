package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/limweiliang/stockroom/internal/crypto"
	"github.com/limweiliang/stockroom/internal/errs"
	"github.com/limweiliang/stockroom/internal/model"
	"github.com/limweiliang/stockroom/internal/repository"
	"github.com/limweiliang/stockroom/internal/status"
)

// LoginParams carries login credentials.
type LoginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult reports the outcome of a login attempt.
type LoginResult struct {
	Status    status.Status `json:"status"`
	SessionID string        `json:"sessionId,omitempty"`
	User      *model.User   `json:"user,omitempty"`
}

// CurrentUserResult carries the profile of the session's owner.
type CurrentUserResult struct {
	Status status.Status `json:"status"`
	User   *model.User   `json:"user,omitempty"`
}

// StatusResult is the payloadless result shared by mutating operations.
type StatusResult struct {
	Status status.Status `json:"status"`
}

// Auth handles the session lifecycle.
type Auth interface {
	// Login verifies credentials and opens a session. Unknown email and
	// wrong password report the same INVALID_CREDENTIAL.
	Login(ctx context.Context, p LoginParams) LoginResult
	// Logout destroys the caller's session.
	Logout(ctx context.Context, sessionID string) StatusResult
	// CurrentUser returns the profile of the session's owner.
	CurrentUser(ctx context.Context, sessionID string) CurrentUserResult
}

// AuthImpl implements Auth on the user and session repositories.
type AuthImpl struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	log      *zap.Logger
}

// NewAuth constructs the auth service.
func NewAuth(users repository.UserRepository, sessions repository.SessionRepository, log *zap.Logger) *AuthImpl {
	return &AuthImpl{users: users, sessions: sessions, log: log}
}

func (s *AuthImpl) Login(ctx context.Context, p LoginParams) LoginResult {
	if p.Email == "" {
		return LoginResult{Status: status.MissingEmail}
	}
	if p.Password == "" {
		return LoginResult{Status: status.MissingPassword}
	}

	user, err := s.users.GetByEmail(ctx, p.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return LoginResult{Status: status.InvalidCredential}
		}
		s.log.Error("login: load user", zap.Error(err))
		return LoginResult{Status: status.ServerError}
	}
	if !crypto.VerifyPassword(p.Password, user.PwHash) {
		return LoginResult{Status: status.InvalidCredential}
	}

	sessionID, err := crypto.NewSessionID()
	if err != nil {
		s.log.Error("login: generate session id", zap.Error(err))
		return LoginResult{Status: status.ServerError}
	}
	if err := s.sessions.Create(ctx, sessionID, user.ID); err != nil {
		s.log.Error("login: create session", zap.Error(err))
		return LoginResult{Status: status.ServerError}
	}

	user.PwHash = ""
	return LoginResult{Status: status.Success, SessionID: sessionID, User: user}
}

func (s *AuthImpl) Logout(ctx context.Context, sessionID string) StatusResult {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, errs.ErrInvalidSession) {
			return StatusResult{Status: status.InvalidSession}
		}
		s.log.Error("logout", zap.Error(err))
		return StatusResult{Status: status.ServerError}
	}
	return StatusResult{Status: status.Success}
}

func (s *AuthImpl) CurrentUser(ctx context.Context, sessionID string) CurrentUserResult {
	caller, st := resolveSession(ctx, s.sessions, s.log, sessionID)
	if !st.OK() {
		return CurrentUserResult{Status: st}
	}

	user, err := s.users.GetByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			// The owning user was deleted out from under the session.
			return CurrentUserResult{Status: status.InvalidSession}
		}
		s.log.Error("current user", zap.Error(err))
		return CurrentUserResult{Status: status.ServerError}
	}
	return CurrentUserResult{Status: status.Success, User: user}
}
