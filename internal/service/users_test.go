package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/limweiliang/stockroom/internal/model"
	"github.com/limweiliang/stockroom/internal/status"
)

func newUsersService(t *testing.T) (*UsersImpl, *fakeUsers, *fakeSessions) {
	t.Helper()
	users := newFakeUsers()
	sessions := newFakeSessions()
	seedUser(t, users, 1, "admin@x.com", "admin", model.RoleAdmin)
	sessions.add("admin-tok", 1, model.RoleAdmin)
	seedUser(t, users, 2, "sales@x.com", "sales", model.RoleSalesExecutive)
	sessions.add("sales-tok", 2, model.RoleSalesExecutive)
	return NewUsers(users, sessions, zap.NewNop()), users, sessions
}

func validAddUser(sessionID string) AddUserParams {
	return AddUserParams{
		SessionID: sessionID,
		FirstName: "New",
		LastName:  "Hire",
		Email:     "hire@x.com",
		IDNumber:  "900101-01-1234",
		IDType:    model.IDTypeIC,
		Role:      model.RoleSalesExecutive,
		Password:  "pw",
		Status:    model.UserStatusActive,
	}
}

func TestUsers_Add_RoundTrip(t *testing.T) {
	svc, _, _ := newUsersService(t)
	ctx := context.Background()

	before := svc.List(ctx, ListUsersParams{SessionID: "admin-tok", Page: 1})
	require.Equal(t, status.Success, before.Status)

	res := svc.Add(ctx, validAddUser("admin-tok"))
	require.Equal(t, status.Success, res.Status)
	require.NotZero(t, res.NewUserID)

	got := svc.Get(ctx, "admin-tok", res.NewUserID)
	require.Equal(t, status.Success, got.Status)
	require.Equal(t, "New", got.User.FirstName)
	require.Equal(t, "hire@x.com", got.User.Email)
	require.Equal(t, int64(1), got.User.CreatedByUserID)

	after := svc.List(ctx, ListUsersParams{SessionID: "admin-tok", Page: 1})
	require.Len(t, after.Users, len(before.Users)+1)
}

func TestUsers_Add_AdminOnly(t *testing.T) {
	svc, _, _ := newUsersService(t)
	res := svc.Add(context.Background(), validAddUser("sales-tok"))
	require.Equal(t, status.PermissionDenied, res.Status)
}

func TestUsers_Add_ValidationOrder(t *testing.T) {
	svc, _, _ := newUsersService(t)
	ctx := context.Background()

	cases := []struct {
		mutate func(*AddUserParams)
		want   status.Status
	}{
		{func(p *AddUserParams) { p.FirstName = "" }, status.MissingFirstName},
		{func(p *AddUserParams) { p.LastName = "" }, status.MissingLastName},
		{func(p *AddUserParams) { p.Email = "" }, status.MissingEmail},
		{func(p *AddUserParams) { p.Email = "not-an-email" }, status.InvalidEmail},
		{func(p *AddUserParams) { p.Email = "admin@x.com" }, status.RepeatedEmail},
		{func(p *AddUserParams) { p.IDNumber = "" }, status.MissingIDNumber},
		{func(p *AddUserParams) { p.IDNumber = "admin@x.com" }, status.RepeatedIDNumber},
		{func(p *AddUserParams) { p.IDType = "" }, status.MissingIDType},
		{func(p *AddUserParams) { p.IDType = "DriverLicense" }, status.InvalidIDType},
		{func(p *AddUserParams) { p.Role = "" }, status.MissingRole},
		{func(p *AddUserParams) { p.Role = "Janitor" }, status.InvalidRole},
		{func(p *AddUserParams) { p.Password = "" }, status.MissingPassword},
		{func(p *AddUserParams) { p.Status = "" }, status.MissingStatus},
		{func(p *AddUserParams) { p.Status = "Suspended" }, status.InvalidStatus},
	}
	for _, tc := range cases {
		p := validAddUser("admin-tok")
		tc.mutate(&p)
		require.Equal(t, tc.want, svc.Add(ctx, p).Status)
	}

	// The first violated rule alone determines the code: a missing first
	// name masks every later problem.
	p := validAddUser("admin-tok")
	p.FirstName = ""
	p.Email = "admin@x.com"
	p.Role = "Janitor"
	require.Equal(t, status.MissingFirstName, svc.Add(ctx, p).Status)
}

func TestUsers_Add_RepeatedEmailLeavesCountUnchanged(t *testing.T) {
	svc, users, _ := newUsersService(t)
	ctx := context.Background()

	before, err := users.Count(ctx)
	require.NoError(t, err)

	p := validAddUser("admin-tok")
	p.Email = "sales@x.com"
	require.Equal(t, status.RepeatedEmail, svc.Add(ctx, p).Status)

	after, err := users.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestUsers_Set_SelfAllowedForNonAdmin(t *testing.T) {
	svc, users, _ := newUsersService(t)
	ctx := context.Background()

	p := SetUserParams{
		SessionID: "sales-tok",
		UserID:    2,
		FirstName: "Renamed",
		LastName:  "User",
		Email:     "sales@x.com",
		IDNumber:  "sales@x.com",
		IDType:    model.IDTypeIC,
		Role:      model.RoleSalesExecutive,
		Status:    model.UserStatusActive,
	}
	require.Equal(t, status.Success, svc.Set(ctx, p).Status)
	require.Equal(t, "Renamed", users.byID[2].FirstName)

	// Another user's record is off limits.
	p.UserID = 1
	require.Equal(t, status.PermissionDenied, svc.Set(ctx, p).Status)
}

func TestUsers_Set_NotFoundBeforeFieldChecks(t *testing.T) {
	svc, _, _ := newUsersService(t)
	res := svc.Set(context.Background(), SetUserParams{SessionID: "admin-tok", UserID: 99})
	require.Equal(t, status.NotFound, res.Status)
}

func TestUsers_Set_KeepsPasswordWhenBlank(t *testing.T) {
	svc, users, _ := newUsersService(t)
	ctx := context.Background()
	oldHash := users.byID[2].PwHash

	p := SetUserParams{
		SessionID: "admin-tok",
		UserID:    2,
		FirstName: "Test",
		LastName:  "User",
		Email:     "sales@x.com",
		IDNumber:  "sales@x.com",
		IDType:    model.IDTypeIC,
		Role:      model.RoleSalesExecutive,
		Status:    model.UserStatusActive,
	}
	require.Equal(t, status.Success, svc.Set(ctx, p).Status)
	require.Equal(t, oldHash, users.byID[2].PwHash)

	p.Password = "newpw"
	require.Equal(t, status.Success, svc.Set(ctx, p).Status)
	require.NotEqual(t, oldHash, users.byID[2].PwHash)
}

func TestUsers_Delete_DependedWhenCreatorOfOthers(t *testing.T) {
	svc, users, _ := newUsersService(t)
	ctx := context.Background()

	users.byID[2].CreatedByUserID = 1

	res := svc.Delete(ctx, "admin-tok", 1)
	require.Equal(t, status.Depended, res.Status)
	require.Contains(t, users.byID, int64(1))
}

func TestUsers_Delete_OK(t *testing.T) {
	svc, users, _ := newUsersService(t)
	ctx := context.Background()

	require.Equal(t, status.Success, svc.Delete(ctx, "admin-tok", 2).Status)
	require.NotContains(t, users.byID, int64(2))

	require.Equal(t, status.NotFound, svc.Delete(ctx, "admin-tok", 2).Status)
}

func TestUsers_List_InvalidSession(t *testing.T) {
	svc, _, _ := newUsersService(t)
	res := svc.List(context.Background(), ListUsersParams{SessionID: "bogus"})
	require.Equal(t, status.InvalidSession, res.Status)
}
