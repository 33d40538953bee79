// Package repository contains data access logic separated from HTTP
// handlers. This file defines sentinel errors shared across repositories so
// higher layers can distinguish failure scenarios without string matching.
package repository

import "errors"

// ErrEmailExists is returned when a user insert violates the unique email
// index. Handlers translate this into the duplicate-registration response.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrRoleNotFound is returned when a role lookup matches no row. At boot
// this is fatal; per-request it indicates a misconfigured deployment.
var ErrRoleNotFound = errors.New("role not found")

// ErrTokenNotFound is returned when an access token lookup or revocation
// matches no row. Logging out an already-revoked token surfaces this.
var ErrTokenNotFound = errors.New("access token not found")

// ErrPostNotFound is returned when a post lookup matches no row.
var ErrPostNotFound = errors.New("post not found")
