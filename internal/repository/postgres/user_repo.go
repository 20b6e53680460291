package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/limweiliang/stockroom/internal/errs"
	"github.com/limweiliang/stockroom/internal/model"
	"github.com/limweiliang/stockroom/internal/repository"
	"github.com/limweiliang/stockroom/internal/sqlbuild"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `
SELECT u.user_id, u.first_name, u.last_name, u.email, u.id_number, u.id_type,
       u.role, u.profile_pic, u.status,
       c.user_id AS created_by_user_id,
       c.first_name || ' ' || c.last_name AS created_by_user_name,
       u.created_on `

const userJoin = `FROM users AS u INNER JOIN users AS c ON c.user_id = u.created_by `

// List returns one page of users matching f plus the total match count. The
// filter predicates are assembled once and reused for the count query.
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter, page int) ([]model.User, int, error) {
	q := sqlbuild.NewQuery()
	q.AppendSelect(userColumns)
	q.AppendFrom(userJoin)

	if f.Name != "" {
		q.AppendWhere("(u.first_name LIKE ? OR u.last_name LIKE ?) ")
		q.BindWhere(sqlbuild.Text(f.Name+"%"), sqlbuild.Text(f.Name+"%"))
	}
	if f.Email != "" {
		q.AppendWhere("u.email LIKE ? ")
		q.BindWhere(sqlbuild.Text(f.Email + "%"))
	}
	if f.IDNumber != "" {
		q.AppendWhere("u.id_number = ? ")
		q.BindWhere(sqlbuild.Text(f.IDNumber))
	}
	if f.Role != "" {
		q.AppendWhere("u.role = ? ")
		q.BindWhere(sqlbuild.Text(f.Role))
	}

	q.AppendTail("ORDER BY u.user_id LIMIT 20 OFFSET ? ")
	q.BindTail(sqlbuild.Int(int64((page - 1) * repository.PageSize)))

	sql, args := q.Build()
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.IDNumber, &u.IDType,
			&u.Role, &u.ProfilePic, &u.Status,
			&u.CreatedByUserID, &u.CreatedByUserName, &u.CreatedOn,
		); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := r.countMatches(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// countMatches runs count(*) against the data query's from clause and
// predicate set.
func (r *UserRepo) countMatches(ctx context.Context, data *sqlbuild.Query) (int, error) {
	count := sqlbuild.NewQuery()
	count.AppendSelect("SELECT count(*) ")
	count.AppendFrom(data.From())
	count.AppendWhere(data.Where())
	count.BindWhere(data.WhereParams()...)

	sql, args := count.Build()
	var total int
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// GetByID selects a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := r.db.Pool.QueryRow(ctx, userColumns+userJoin+`WHERE u.user_id = $1`, id)
	var u model.User
	if err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.IDNumber, &u.IDType,
		&u.Role, &u.ProfilePic, &u.Status,
		&u.CreatedByUserID, &u.CreatedByUserName, &u.CreatedOn,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail selects a user by email, including the password hash for
// credential verification.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
SELECT u.user_id, u.first_name, u.last_name, u.email, u.id_number, u.id_type,
       u.role, u.pw_hash, u.profile_pic, u.status,
       c.user_id AS created_by_user_id,
       c.first_name || ' ' || c.last_name AS created_by_user_name,
       u.created_on
FROM users AS u INNER JOIN users AS c ON c.user_id = u.created_by
WHERE u.email = $1`
	row := r.db.Pool.QueryRow(ctx, q, email)
	var u model.User
	if err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.IDNumber, &u.IDType,
		&u.Role, &u.PwHash, &u.ProfilePic, &u.Status,
		&u.CreatedByUserID, &u.CreatedByUserName, &u.CreatedOn,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user row and returns the generated id.
func (r *UserRepo) Create(ctx context.Context, u repository.NewUser) (int64, error) {
	const q = `
INSERT INTO users (first_name, last_name, email, id_number, id_type, role, pw_hash, profile_pic, status, created_by, created_on)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
RETURNING user_id`
	var id int64
	err := r.db.Pool.QueryRow(ctx, q,
		u.FirstName, u.LastName, u.Email, u.IDNumber, u.IDType,
		u.Role, u.PwHash, u.ProfilePic, u.Status, u.CreatedBy,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, errs.ErrAlreadyExists
	}
	return id, err
}

// Update rewrites a user row. Password hash and profile picture are written
// only when provided, so the assignment list is assembled dynamically.
func (r *UserRepo) Update(ctx context.Context, u repository.UserUpdate) error {
	b := sqlbuild.NewUpdate()
	b.AppendUpdate("UPDATE users ")

	b.AppendSet("first_name = ? ")
	b.BindSet(sqlbuild.Text(u.FirstName))
	b.AppendSet("last_name = ? ")
	b.BindSet(sqlbuild.Text(u.LastName))
	b.AppendSet("email = ? ")
	b.BindSet(sqlbuild.Text(u.Email))
	b.AppendSet("id_number = ? ")
	b.BindSet(sqlbuild.Text(u.IDNumber))
	b.AppendSet("id_type = ? ")
	b.BindSet(sqlbuild.Text(u.IDType))
	b.AppendSet("role = ? ")
	b.BindSet(sqlbuild.Text(u.Role))
	b.AppendSet("status = ? ")
	b.BindSet(sqlbuild.Text(u.Status))

	if u.PwHash != "" {
		b.AppendSet("pw_hash = ? ")
		b.BindSet(sqlbuild.Text(u.PwHash))
	}
	if len(u.ProfilePic) != 0 {
		b.AppendSet("profile_pic = ? ")
		b.BindSet(sqlbuild.Binary(u.ProfilePic))
	}

	b.AppendWhere("user_id = ? ")
	b.BindWhere(sqlbuild.Int(u.ID))

	sql, args := b.Build()
	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a user row.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Exists reports whether a user row exists.
func (r *UserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`, id).Scan(&ok)
	return ok, err
}

// EmailTaken reports whether another user already holds email.
func (r *UserRepo) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var ok bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND user_id <> $2)`,
		email, excludeID).Scan(&ok)
	return ok, err
}

// IDNumberTaken reports whether another user already holds idNumber.
func (r *UserRepo) IDNumberTaken(ctx context.Context, idNumber string, excludeID int64) (bool, error) {
	var ok bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id_number = $1 AND user_id <> $2)`,
		idNumber, excludeID).Scan(&ok)
	return ok, err
}

// HasDependents reports whether any other user references id as its creator.
func (r *UserRepo) HasDependents(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE created_by = $1 AND user_id <> $1)`,
		id).Scan(&ok)
	return ok, err
}

// Count returns the total number of user rows.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}

// SeedAdmin inserts the bootstrap administrator. The explicit user_id lets
// the row reference itself as creator; the sequence is advanced past it so
// later inserts do not collide.
func (r *UserRepo) SeedAdmin(ctx context.Context, pwHash string) error {
	const ins = `
INSERT INTO users (
    user_id, first_name, last_name, email, id_number,
    id_type, role, pw_hash, profile_pic, status,
    created_by, created_on
)
VALUES (
    1, 'Administrator', '', 'Administrator', '',
    'IC', 'Admin', $1, ''::bytea, 'Active',
    1, now()
)
ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.Pool.Exec(ctx, ins, pwHash); err != nil {
		return err
	}
	_, err := r.db.Pool.Exec(ctx,
		`SELECT setval(pg_get_serial_sequence('users', 'user_id'), GREATEST(1, (SELECT max(user_id) FROM users)))`)
	return err
}
