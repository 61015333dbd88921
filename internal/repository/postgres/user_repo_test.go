package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/stonesign/plaque-cms/internal/errs"
	"github.com/stonesign/plaque-cms/internal/model"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func strp(s string) *string { return &s }

var userCols = []string{"id", "open_id", "name", "email", "login_method", "role", "created_at", "updated_at", "last_signed_in"}

func TestUserRepo_Create_OK_and_UniqueViolation(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	u := &model.User{OpenID: "oid-1", Name: strp("Ada")}

	mock.ExpectQuery(`INSERT INTO users \(open_id, name, email, login_method, role\)`).
		WithArgs("oid-1", u.Name, u.Email, u.LoginMethod, "user").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	id, err := r.Create(ctx, u)
	require.NoError(t, err)
	require.Equal(t, int64(7), id)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("oid-1", u.Name, u.Email, u.LoginMethod, "user").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	_, err = r.Create(ctx, u)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already registered")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(`FROM users WHERE id=\$1`).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(int64(3), "oid-3", strp("Root"), nil, nil, "admin", now, now, now))
	u, err := r.GetByID(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, u)
	require.Equal(t, int64(3), u.ID)
	require.True(t, u.IsAdmin())
	require.Equal(t, "Root", *u.Name)
	require.Nil(t, u.Email)

	mock.ExpectQuery(`FROM users WHERE id=\$1`).
		WithArgs(int64(4)).
		WillReturnError(pgx.ErrNoRows)
	u, err = r.GetByID(ctx, 4)
	require.NoError(t, err)
	require.Nil(t, u)

	boom := errors.New("boom")
	mock.ExpectQuery(`FROM users WHERE id=\$1`).
		WithArgs(int64(5)).
		WillReturnError(boom)
	_, err = r.GetByID(ctx, 5)
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepos_StoreUnavailable(t *testing.T) {
	ctx := context.Background()
	db := &DB{}

	_, err := NewUserRepo(db).GetByID(ctx, 1)
	require.ErrorIs(t, err, errs.ErrStoreUnavailable)
	_, err = NewContentRepo(db).List(ctx)
	require.ErrorIs(t, err, errs.ErrStoreUnavailable)
	_, err = NewMediaRepo(db).Create(ctx, model.NewMediaAsset{})
	require.ErrorIs(t, err, errs.ErrStoreUnavailable)
	_, err = NewGalleryRepo(db).Delete(ctx, 1)
	require.ErrorIs(t, err, errs.ErrStoreUnavailable)
	_, err = NewContentRepo(nil).Get(ctx, 1)
	require.ErrorIs(t, err, errs.ErrStoreUnavailable)
}

func TestDB_CloseMakesStoreUnavailable(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectClose()
	db.Close()
	_, err := db.Acquire()
	require.ErrorIs(t, err, errs.ErrStoreUnavailable)
	db.Close()
}

func TestPatch_Statement(t *testing.T) {
	var p patch
	title := "t"
	var missing *int
	setIf(&p, "title", &title)
	setIf(&p, "display_order", missing)
	p.set("is_active", false)

	q, args := p.statement("gallery_items", 9)
	require.Equal(t, "UPDATE gallery_items SET title=$2, is_active=$3, updated_at=now() WHERE id=$1", q)
	require.Equal(t, []any{int64(9), "t", false}, args)

	var empty patch
	q, args = empty.statement("media_assets", 1)
	require.Equal(t, "UPDATE media_assets SET updated_at=now() WHERE id=$1", q)
	require.Equal(t, []any{int64(1)}, args)
}

// statementPool implements only the statement methods: no transactions.
type statementPool struct{ err error }

func (p statementPool) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, p.err
}

func (p statementPool) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, p.err }

func (p statementPool) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func (p statementPool) Close() {}

func TestPgxPool_StatementsOnly(t *testing.T) {
	boom := errors.New("connection reset")
	db := &DB{Pool: statementPool{err: boom}}

	_, err := NewGalleryRepo(db).Delete(context.Background(), 1)
	require.ErrorIs(t, err, boom)
	_, err = NewMediaRepo(db).List(context.Background())
	require.ErrorIs(t, err, boom)
}
