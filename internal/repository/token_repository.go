package repository

import (
	"context"
	"database/sql"
	"errors"
)

// TokenRepo persists access tokens (single 'token_hash' column). Only the
// SHA-256 digest of the raw token is stored; a stolen table cannot be
// replayed. Tokens carry no expiry: a row is live until it is revoked.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Store inserts a token hash row bound to a user. The unique index on
// token_hash rejects the (negligibly likely) collision with a live token.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO access_tokens (user_id, token_hash) VALUES (?,?)",
		userID, tokenHash)
	return err
}

// Lookup returns the owning user ID for a live token hash.
func (r *TokenRepo) Lookup(ctx context.Context, tokenHash string) (uint64, error) {
	var userID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM access_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// Revoke deletes exactly the row matching the hash. Revoking a token that
// does not exist is an error, not a no-op.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM access_tokens WHERE token_hash=?", tokenHash)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTokenNotFound
	}
	return nil
}
