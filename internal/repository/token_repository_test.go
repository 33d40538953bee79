package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHash = "0f1e2d3c4b5a69788796a5b4c3d2e1f00f1e2d3c4b5a69788796a5b4c3d2e1f0"

func TestTokenRepo_StoreAndLookup(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO access_tokens (user_id, token_hash) VALUES (?,?)")).
		WithArgs(uint64(7), sampleHash).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT user_id FROM access_tokens WHERE token_hash=? LIMIT 1")).
		WithArgs(sampleHash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))

	require.NoError(t, repo.Store(context.Background(), 7, sampleHash))

	userID, err := repo.Lookup(context.Background(), sampleHash)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), userID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepo_Lookup_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT user_id FROM access_tokens WHERE token_hash=? LIMIT 1")).
		WithArgs(sampleHash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := repo.Lookup(context.Background(), sampleHash)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenRepo_Revoke(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM access_tokens WHERE token_hash=?")).
		WithArgs(sampleHash).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Revoke(context.Background(), sampleHash))
}

func TestTokenRepo_Revoke_AlreadyRevoked(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	// Revoking a token twice is an error, not an idempotent no-op.
	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM access_tokens WHERE token_hash=?")).
		WithArgs(sampleHash).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Revoke(context.Background(), sampleHash)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}
