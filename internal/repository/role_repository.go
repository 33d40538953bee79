package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Role mirrors the 'roles' table. The table holds a small fixed set of
// named tiers; only "admin" grants elevated access in current scope.
type Role struct {
	ID   uint64
	Type string
}

// RoleType values seeded at boot.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// GetByType fetches a role by its type name. The unique index on type keeps
// this lookup deterministic.
func (r *RoleRepo) GetByType(ctx context.Context, roleType string) (Role, error) {
	var role Role
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,type FROM roles WHERE type=? LIMIT 1",
		roleType).Scan(&role.ID, &role.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return Role{}, ErrRoleNotFound
	}
	return role, err
}

// GetByID fetches a role by id.
func (r *RoleRepo) GetByID(ctx context.Context, id uint64) (Role, error) {
	var role Role
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,type FROM roles WHERE id=? LIMIT 1",
		id).Scan(&role.ID, &role.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return Role{}, ErrRoleNotFound
	}
	return role, err
}

// Count returns the number of role rows.
func (r *RoleRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM roles").Scan(&n)
	return n, err
}

// Seed inserts the default "admin" and "user" roles when the table is
// empty. Safe to call on every process start; the unique index on type
// backs the idempotence if two instances race at boot.
func (r *RoleRepo) Seed(ctx context.Context) error {
	n, err := r.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, roleType := range []string{RoleAdmin, RoleUser} {
		if _, err := r.DB.ExecContext(ctx,
			"INSERT INTO roles (type) VALUES (?)", roleType); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "1062") {
				continue // another instance seeded first
			}
			return err
		}
	}
	return nil
}
