// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/limweiliang/stockroom/internal/model"
)

// PageSize is the fixed page length for every list operation.
const PageSize = 20

// MaxPage computes the last 1-based page number for total matching rows.
// An empty result still has one (empty) page.
func MaxPage(total int) int { return (total-1)/PageSize + 1 }

// UserFilter restricts a user listing. Zero-valued fields are ignored.
type UserFilter struct {
	Name     string // prefix match on first or last name
	Email    string // prefix match
	IDNumber string // exact match
	Role     string // exact match
}

// NewUser carries the validated fields for a user insert.
type NewUser struct {
	FirstName  string
	LastName   string
	Email      string
	IDNumber   string
	IDType     string
	Role       string
	PwHash     string
	ProfilePic []byte
	Status     string
	CreatedBy  int64
}

// UserUpdate carries the validated fields for a user update. PwHash and
// ProfilePic are only written when non-empty.
type UserUpdate struct {
	ID         int64
	FirstName  string
	LastName   string
	Email      string
	IDNumber   string
	IDType     string
	Role       string
	Status     string
	PwHash     string
	ProfilePic []byte
}

// UserRepository provides CRUD access for users.
type UserRepository interface {
	// List returns one page of users matching f plus the total match count.
	List(ctx context.Context, f UserFilter, page int) ([]model.User, int, error)
	// GetByID loads a user by id.
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByEmail loads a user by email including the password hash.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Create inserts a new user and returns the generated id.
	Create(ctx context.Context, u NewUser) (int64, error)
	// Update rewrites a user row.
	Update(ctx context.Context, u UserUpdate) error
	// Delete removes a user row.
	Delete(ctx context.Context, id int64) error
	// Exists reports whether a user row exists.
	Exists(ctx context.Context, id int64) (bool, error)
	// EmailTaken reports whether another user already holds email.
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	// IDNumberTaken reports whether another user already holds idNumber.
	IDNumberTaken(ctx context.Context, idNumber string, excludeID int64) (bool, error)
	// HasDependents reports whether any user references id as its creator.
	HasDependents(ctx context.Context, id int64) (bool, error)
	// Count returns the total number of user rows.
	Count(ctx context.Context) (int64, error)
	// SeedAdmin inserts the bootstrap administrator account, which is the
	// only row allowed to reference itself as creator. A no-op when the
	// account already exists.
	SeedAdmin(ctx context.Context, pwHash string) error
}
