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

// ListUsersParams selects a page of users. Filter fields are optional.
type ListUsersParams struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IDNumber  string `json:"idNumber"`
	Role      string `json:"role"`
	Page      int    `json:"page"`
}

// ListUsersResult carries one page of users.
type ListUsersResult struct {
	Status  status.Status `json:"status"`
	Users   []model.User  `json:"users,omitempty"`
	Page    int           `json:"page,omitempty"`
	MaxPage int           `json:"maxPage,omitempty"`
}

// GetUserResult carries a single user.
type GetUserResult struct {
	Status status.Status `json:"status"`
	User   *model.User   `json:"user,omitempty"`
}

// AddUserParams carries the fields for creating a user.
type AddUserParams struct {
	SessionID  string `json:"sessionId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	IDNumber   string `json:"idNumber"`
	IDType     string `json:"idType"`
	Role       string `json:"role"`
	Password   string `json:"password"`
	ProfilePic []byte `json:"profilePic"`
	Status     string `json:"userStatus"`
}

// AddUserResult reports the created user's id.
type AddUserResult struct {
	Status    status.Status `json:"status"`
	NewUserID int64         `json:"newUserId,omitempty"`
}

// SetUserParams carries the fields for updating a user. Password and
// ProfilePic are only applied when non-empty.
type SetUserParams struct {
	SessionID  string `json:"sessionId"`
	UserID     int64  `json:"userId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	IDNumber   string `json:"idNumber"`
	IDType     string `json:"idType"`
	Role       string `json:"role"`
	Password   string `json:"password"`
	ProfilePic []byte `json:"profilePic"`
	Status     string `json:"userStatus"`
}

// Users handles account management. All operations are Admin-gated except
// that a user may update their own record.
type Users interface {
	List(ctx context.Context, p ListUsersParams) ListUsersResult
	Get(ctx context.Context, sessionID string, userID int64) GetUserResult
	Add(ctx context.Context, p AddUserParams) AddUserResult
	Set(ctx context.Context, p SetUserParams) StatusResult
	// Delete removes a user unless other users reference it as creator.
	Delete(ctx context.Context, sessionID string, userID int64) StatusResult
}

// UsersImpl implements Users.
type UsersImpl struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	log      *zap.Logger
}

// NewUsers constructs the user service.
func NewUsers(users repository.UserRepository, sessions repository.SessionRepository, log *zap.Logger) *UsersImpl {
	return &UsersImpl{users: users, sessions: sessions, log: log}
}

func (s *UsersImpl) List(ctx context.Context, p ListUsersParams) ListUsersResult {
	caller, st := resolveSession(ctx, s.sessions, s.log, p.SessionID)
	if !st.OK() {
		return ListUsersResult{Status: st}
	}
	if caller.Role != model.RoleAdmin {
		return ListUsersResult{Status: status.PermissionDenied}
	}

	page := normPage(p.Page)
	f := repository.UserFilter{Name: p.Name, Email: p.Email, IDNumber: p.IDNumber, Role: p.Role}
	users, total, err := s.users.List(ctx, f, page)
	if err != nil {
		s.log.Error("list users", zap.Error(err))
		return ListUsersResult{Status: status.ServerError}
	}
	return ListUsersResult{
		Status:  status.Success,
		Users:   users,
		Page:    page,
		MaxPage: repository.MaxPage(total),
	}
}

func (s *UsersImpl) Get(ctx context.Context, sessionID string, userID int64) GetUserResult {
	caller, st := resolveSession(ctx, s.sessions, s.log, sessionID)
	if !st.OK() {
		return GetUserResult{Status: st}
	}
	if caller.Role != model.RoleAdmin {
		return GetUserResult{Status: status.PermissionDenied}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return GetUserResult{Status: status.NotFound}
		}
		s.log.Error("get user", zap.Error(err))
		return GetUserResult{Status: status.ServerError}
	}
	return GetUserResult{Status: status.Success, User: user}
}

func (s *UsersImpl) Add(ctx context.Context, p AddUserParams) AddUserResult {
	caller, st := resolveSession(ctx, s.sessions, s.log, p.SessionID)
	if !st.OK() {
		return AddUserResult{Status: st}
	}
	if caller.Role != model.RoleAdmin {
		return AddUserResult{Status: status.PermissionDenied}
	}

	fields := userFields{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		IDNumber:  p.IDNumber,
		IDType:    p.IDType,
		Role:      p.Role,
	}
	if st := s.validate(ctx, fields, 0); !st.OK() {
		return AddUserResult{Status: st}
	}
	if p.Password == "" {
		return AddUserResult{Status: status.MissingPassword}
	}
	if p.Status == "" {
		return AddUserResult{Status: status.MissingStatus}
	}
	if !model.ValidUserStatus(p.Status) {
		return AddUserResult{Status: status.InvalidStatus}
	}

	pwHash, err := crypto.EncodePassword(p.Password)
	if err != nil {
		s.log.Error("add user: encode password", zap.Error(err))
		return AddUserResult{Status: status.ServerError}
	}

	id, err := s.users.Create(ctx, repository.NewUser{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		IDNumber:   p.IDNumber,
		IDType:     p.IDType,
		Role:       p.Role,
		PwHash:     pwHash,
		ProfilePic: p.ProfilePic,
		Status:     p.Status,
		CreatedBy:  caller.ID,
	})
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			// Lost a race with a concurrent insert of the same email.
			return AddUserResult{Status: status.RepeatedEmail}
		}
		s.log.Error("add user", zap.Error(err))
		return AddUserResult{Status: status.ServerError}
	}
	return AddUserResult{Status: status.Success, NewUserID: id}
}

func (s *UsersImpl) Set(ctx context.Context, p SetUserParams) StatusResult {
	caller, st := resolveSession(ctx, s.sessions, s.log, p.SessionID)
	if !st.OK() {
		return StatusResult{Status: st}
	}
	if caller.Role != model.RoleAdmin && caller.ID != p.UserID {
		return StatusResult{Status: status.PermissionDenied}
	}

	exists, err := s.users.Exists(ctx, p.UserID)
	if err != nil {
		s.log.Error("set user: existence", zap.Error(err))
		return StatusResult{Status: status.ServerError}
	}
	if !exists {
		return StatusResult{Status: status.NotFound}
	}

	fields := userFields{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		IDNumber:  p.IDNumber,
		IDType:    p.IDType,
		Role:      p.Role,
	}
	if st := s.validate(ctx, fields, p.UserID); !st.OK() {
		return StatusResult{Status: st}
	}
	if p.Status == "" {
		return StatusResult{Status: status.MissingStatus}
	}
	if !model.ValidUserStatus(p.Status) {
		return StatusResult{Status: status.InvalidStatus}
	}

	var pwHash string
	if p.Password != "" {
		if pwHash, err = crypto.EncodePassword(p.Password); err != nil {
			s.log.Error("set user: encode password", zap.Error(err))
			return StatusResult{Status: status.ServerError}
		}
	}

	err = s.users.Update(ctx, repository.UserUpdate{
		ID:         p.UserID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		IDNumber:   p.IDNumber,
		IDType:     p.IDType,
		Role:       p.Role,
		Status:     p.Status,
		PwHash:     pwHash,
		ProfilePic: p.ProfilePic,
	})
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return StatusResult{Status: status.NotFound}
		}
		if errors.Is(err, errs.ErrAlreadyExists) {
			return StatusResult{Status: status.RepeatedEmail}
		}
		s.log.Error("set user", zap.Error(err))
		return StatusResult{Status: status.ServerError}
	}
	return StatusResult{Status: status.Success}
}

func (s *UsersImpl) Delete(ctx context.Context, sessionID string, userID int64) StatusResult {
	caller, st := resolveSession(ctx, s.sessions, s.log, sessionID)
	if !st.OK() {
		return StatusResult{Status: st}
	}
	if caller.Role != model.RoleAdmin {
		return StatusResult{Status: status.PermissionDenied}
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		s.log.Error("delete user: existence", zap.Error(err))
		return StatusResult{Status: status.ServerError}
	}
	if !exists {
		return StatusResult{Status: status.NotFound}
	}

	depended, err := s.users.HasDependents(ctx, userID)
	if err != nil {
		s.log.Error("delete user: dependents", zap.Error(err))
		return StatusResult{Status: status.ServerError}
	}
	if depended {
		return StatusResult{Status: status.Depended}
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return StatusResult{Status: status.NotFound}
		}
		s.log.Error("delete user", zap.Error(err))
		return StatusResult{Status: status.ServerError}
	}
	return StatusResult{Status: status.Success}
}

// userFields is the subset of user fields shared by add and set validation.
type userFields struct {
	FirstName string
	LastName  string
	Email     string
	IDNumber  string
	IDType    string
	Role      string
}

// validate runs the ordered field checks shared by Add and Set. excludeID is
// the row exempted from uniqueness checks (0 on add).
func (s *UsersImpl) validate(ctx context.Context, f userFields, excludeID int64) status.Status {
	if f.FirstName == "" {
		return status.MissingFirstName
	}
	if f.LastName == "" {
		return status.MissingLastName
	}
	if f.Email == "" {
		return status.MissingEmail
	}
	if !emailRx.MatchString(f.Email) {
		return status.InvalidEmail
	}
	taken, err := s.users.EmailTaken(ctx, f.Email, excludeID)
	if err != nil {
		s.log.Error("validate user: email uniqueness", zap.Error(err))
		return status.ServerError
	}
	if taken {
		return status.RepeatedEmail
	}
	if f.IDNumber == "" {
		return status.MissingIDNumber
	}
	taken, err = s.users.IDNumberTaken(ctx, f.IDNumber, excludeID)
	if err != nil {
		s.log.Error("validate user: id number uniqueness", zap.Error(err))
		return status.ServerError
	}
	if taken {
		return status.RepeatedIDNumber
	}
	if f.IDType == "" {
		return status.MissingIDType
	}
	if !model.ValidIDType(f.IDType) {
		return status.InvalidIDType
	}
	if f.Role == "" {
		return status.MissingRole
	}
	if !model.ValidRole(f.Role) {
		return status.InvalidRole
	}
	return status.Success
}
