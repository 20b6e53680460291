package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/limweiliang/stockroom/internal/crypto"
	"github.com/limweiliang/stockroom/internal/model"
	"github.com/limweiliang/stockroom/internal/status"
)

func seedUser(t *testing.T, users *fakeUsers, id int64, email, password, role string) {
	t.Helper()
	pwHash, err := crypto.EncodePassword(password)
	require.NoError(t, err)
	users.put(model.User{
		ID:        id,
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		IDNumber:  email,
		IDType:    model.IDTypeIC,
		Role:      role,
		PwHash:    pwHash,
		Status:    model.UserStatusActive,
	})
}

func TestAuth_Login_SessionResolvesToSameUser(t *testing.T) {
	users := newFakeUsers()
	sessions := newFakeSessions()
	seedUser(t, users, 1, "admin@x.com", "admin", model.RoleAdmin)
	auth := NewAuth(users, sessions, zap.NewNop())

	ctx := context.Background()
	res := auth.Login(ctx, LoginParams{Email: "admin@x.com", Password: "admin"})
	require.Equal(t, status.Success, res.Status)
	require.NotEmpty(t, res.SessionID)
	require.Empty(t, res.User.PwHash)

	me := auth.CurrentUser(ctx, res.SessionID)
	require.Equal(t, status.Success, me.Status)
	require.Equal(t, int64(1), me.User.ID)
}

func TestAuth_Login_FieldOrder(t *testing.T) {
	auth := NewAuth(newFakeUsers(), newFakeSessions(), zap.NewNop())
	ctx := context.Background()

	res := auth.Login(ctx, LoginParams{})
	require.Equal(t, status.MissingEmail, res.Status)

	res = auth.Login(ctx, LoginParams{Email: "a@x.com"})
	require.Equal(t, status.MissingPassword, res.Status)
}

func TestAuth_Login_InvalidCredentialIsNonDistinguishing(t *testing.T) {
	users := newFakeUsers()
	seedUser(t, users, 1, "admin@x.com", "admin", model.RoleAdmin)
	auth := NewAuth(users, newFakeSessions(), zap.NewNop())
	ctx := context.Background()

	unknown := auth.Login(ctx, LoginParams{Email: "nobody@x.com", Password: "admin"})
	wrongPw := auth.Login(ctx, LoginParams{Email: "admin@x.com", Password: "nope"})

	require.Equal(t, status.InvalidCredential, unknown.Status)
	require.Equal(t, status.InvalidCredential, wrongPw.Status)
}

func TestAuth_Logout(t *testing.T) {
	users := newFakeUsers()
	sessions := newFakeSessions()
	seedUser(t, users, 1, "admin@x.com", "admin", model.RoleAdmin)
	sessions.add("tok", 1, model.RoleAdmin)
	auth := NewAuth(users, sessions, zap.NewNop())
	ctx := context.Background()

	require.Equal(t, status.Success, auth.Logout(ctx, "tok").Status)
	// The session is gone afterwards.
	require.Equal(t, status.InvalidSession, auth.Logout(ctx, "tok").Status)
	require.Equal(t, status.InvalidSession, auth.CurrentUser(ctx, "tok").Status)
}

func TestAuth_CurrentUser_InvalidSession(t *testing.T) {
	auth := NewAuth(newFakeUsers(), newFakeSessions(), zap.NewNop())
	res := auth.CurrentUser(context.Background(), "bogus")
	require.Equal(t, status.InvalidSession, res.Status)
}
