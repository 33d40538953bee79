package database

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations holds the schema DDL executed on every start. All statements
// are idempotent. Email and token uniqueness live here as unique indexes:
// concurrent duplicate inserts must be decided by the database, not by a
// check-then-insert in application code.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS roles (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		type       VARCHAR(32) NOT NULL,
		UNIQUE KEY uq_roles_type (type)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		name          VARCHAR(255) NOT NULL,
		role_id       BIGINT UNSIGNED NOT NULL,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email),
		CONSTRAINT fk_users_role FOREIGN KEY (role_id) REFERENCES roles(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS access_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		token_hash CHAR(64) NOT NULL,
		user_id    BIGINT UNSIGNED NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_access_tokens_hash (token_hash),
		CONSTRAINT fk_access_tokens_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS posts (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title      VARCHAR(255) NOT NULL,
		content    TEXT NOT NULL,
		location   DOUBLE NOT NULL DEFAULT 0,
		user_id    BIGINT UNSIGNED NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_posts_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS logs (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		ip         VARCHAR(64) NOT NULL,
		method     VARCHAR(16) NOT NULL,
		route      VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
