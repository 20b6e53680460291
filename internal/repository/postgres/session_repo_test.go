package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/limweiliang/stockroom/internal/errs"
)

func TestSessionRepo_FindUser_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSessionRepo(db)

	mock.ExpectQuery(`WHERE s\.session_id = \$1`).
		WithArgs("0123456789abcdef").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "role"}).
			AddRow(int64(1), "Admin"))

	su, err := r.FindUser(context.Background(), "0123456789abcdef")
	require.NoError(t, err)
	require.Equal(t, int64(1), su.ID)
	require.Equal(t, "Admin", su.Role)
}

func TestSessionRepo_FindUser_Unknown(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSessionRepo(db)

	mock.ExpectQuery(`WHERE s\.session_id = \$1`).
		WithArgs("bogus").
		WillReturnError(pgx.ErrNoRows)

	_, err := r.FindUser(context.Background(), "bogus")
	require.True(t, errors.Is(err, errs.ErrInvalidSession))
}

func TestSessionRepo_Delete_Unknown(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSessionRepo(db)

	mock.ExpectExec(`DELETE FROM sessions WHERE session_id = \$1`).
		WithArgs("bogus").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := r.Delete(context.Background(), "bogus")
	require.True(t, errors.Is(err, errs.ErrInvalidSession))
}
