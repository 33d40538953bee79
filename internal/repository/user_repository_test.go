package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func userColumns() []string {
	return []string{"id", "email", "password_hash", "name", "role_id", "created_at", "updated_at"}
}

func TestUserRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO users (email, password_hash, name, role_id) VALUES (?,?,?,?)")).
		WithArgs("a@b.com", "$2a$hash", "A", uint64(2)).
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.Create(context.Background(), "a@b.com", "$2a$hash", "A", 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO users (email, password_hash, name, role_id) VALUES (?,?,?,?)")).
		WithArgs("a@b.com", "$2a$hash", "A", uint64(2)).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'a@b.com' for key 'uq_users_email'"))

	_, err := repo.Create(context.Background(), "a@b.com", "$2a$hash", "A", 2)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserRepo_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id,email,password_hash,name,role_id,created_at,updated_at FROM users WHERE email=? LIMIT 1")).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(7, "a@b.com", "$2a$hash", "A", 2, now, now))

	u, err := repo.GetByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), u.ID)
	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, uint64(2), u.RoleID)
}

func TestUserRepo_GetByEmail_CaseSensitive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	// The repository must pass the email through unmodified; folding case
	// here would change duplicate detection and login behavior.
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id,email,password_hash,name,role_id,created_at,updated_at FROM users WHERE email=? LIMIT 1")).
		WithArgs("A@B.com").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := repo.GetByEmail(context.Background(), "A@B.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id,email,password_hash,name,role_id,created_at,updated_at FROM users WHERE id=? LIMIT 1")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepo_ListAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id,email,password_hash,name,role_id,created_at,updated_at FROM users ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "admin@admin.dk", "$2a$h1", "Admin", 1, now, now).
			AddRow(2, "a@b.com", "$2a$h2", "A", 2, now, now))

	users, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "admin@admin.dk", users[0].Email)
	assert.Equal(t, "a@b.com", users[1].Email)
}

func TestUserRepo_UpdateName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET name=? WHERE id=?")).
		WithArgs("New Name", uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdateName(context.Background(), 7, "New Name"))
}
