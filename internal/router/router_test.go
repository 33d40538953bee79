package router

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/posts-api/internal/config"
	"github.com/iliyamo/posts-api/internal/handler"
	"github.com/iliyamo/posts-api/internal/repository"
	"github.com/iliyamo/posts-api/internal/utils"
)

func newApp(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	tokens := repository.NewTokenRepo(db)
	posts := repository.NewPostRepo(db)

	e := echo.New()
	Register(e, Deps{
		Auth:      handler.NewAuthHandler(config.Config{BcryptCost: bcrypt.MinCost}, users, roles, tokens),
		Users:     handler.NewUserHandler(users),
		Posts:     handler.NewPostHandler(posts),
		UserRepo:  users,
		RoleRepo:  roles,
		TokenRepo: tokens,
	})
	return e, mock
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthzIsPublic(t *testing.T) {
	e, _ := newApp(t)
	rec := do(e, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e, _ := newApp(t)
	for _, target := range []struct {
		method, path string
	}{
		{http.MethodGet, "/me"},
		{http.MethodGet, "/users"},
		{http.MethodGet, "/user/1"},
		{http.MethodPut, "/user"},
		{http.MethodPost, "/logout"},
		{http.MethodGet, "/posts"},
		{http.MethodGet, "/posts/1"},
		{http.MethodPost, "/posts/create"},
		{http.MethodPut, "/posts/1"},
		{http.MethodDelete, "/posts/1"},
		{http.MethodGet, "/hello"},
	} {
		rec := do(e, httptest.NewRequest(target.method, target.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", target.method, target.path)
	}
}

func TestLoginRequiresBasicCredentials(t *testing.T) {
	e, _ := newApp(t)
	rec := do(e, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func tokenExpectations(t *testing.T, mock sqlmock.Sqlmock, raw string, userID, roleID uint64) {
	t.Helper()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT user_id FROM access_tokens WHERE token_hash=? LIMIT 1")).
		WithArgs(utils.HashToken(raw)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(userID))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id,email,password_hash,name,role_id,created_at,updated_at FROM users WHERE id=? LIMIT 1")).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "password_hash", "name", "role_id", "created_at", "updated_at"}).
			AddRow(userID, "a@b.com", "$2a$h", "A", roleID, time.Now().UTC(), time.Now().UTC()))
}

func TestAdminRouteDeniesRegularUser(t *testing.T) {
	e, mock := newApp(t)

	raw, err := utils.NewToken()
	require.NoError(t, err)
	tokenExpectations(t, mock, raw, 7, 2)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id,type FROM roles WHERE id=? LIMIT 1")).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type"}).AddRow(2, "user"))

	req := httptest.NewRequest(http.MethodGet, "/hello", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := do(e, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRouteAllowsAdmin(t *testing.T) {
	e, mock := newApp(t)

	raw, err := utils.NewToken()
	require.NoError(t, err)
	tokenExpectations(t, mock, raw, 1, 1)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id,type FROM roles WHERE id=? LIMIT 1")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type"}).AddRow(1, "admin"))

	req := httptest.NewRequest(http.MethodGet, "/hello", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := do(e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "You have accessed a protected route", rec.Body.String())
}
