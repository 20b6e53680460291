// Package service implements the operation set exposed to the transport
// layer. Every operation follows the same skeleton: resolve the session,
// gate on role, validate fields in declared order stopping at the first
// violation, then persist. Storage failures are logged and collapsed to
// SERVER_ERROR; nothing is retried.
package service

import (
	"context"
	"errors"
	"regexp"

	"go.uber.org/zap"

	"github.com/limweiliang/stockroom/internal/errs"
	"github.com/limweiliang/stockroom/internal/model"
	"github.com/limweiliang/stockroom/internal/repository"
	"github.com/limweiliang/stockroom/internal/status"
)

var emailRx = regexp.MustCompile(
	"^[\\w!#$%&'*+/=?`{|}~^-]+(?:\\.[\\w!#$%&'*+/=?`{|}~^-]+)*@(?:[a-zA-Z0-9-]+\\.)+[a-zA-Z]{2,6}$")

// resolveSession authenticates a session id. The returned status is Success
// only when caller is non-nil.
func resolveSession(ctx context.Context, sessions repository.SessionRepository, log *zap.Logger, sessionID string) (*model.SessionUser, status.Status) {
	caller, err := sessions.FindUser(ctx, sessionID)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidSession) {
			return nil, status.InvalidSession
		}
		log.Error("resolve session", zap.Error(err))
		return nil, status.ServerError
	}
	return caller, status.Success
}

// normPage clamps a requested page number to the 1-based range.
func normPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
