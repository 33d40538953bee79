package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/posts-api/internal/repository"
	"github.com/iliyamo/posts-api/internal/utils"
)

// userContextKey is where the resolved identity lives in the Echo context.
// Handlers read it through handler.currentUser.
const userContextKey = "auth_user"

const dbTimeout = 5 * time.Second

// SetUser attaches the authenticated identity to the request context.
func SetUser(c echo.Context, u repository.User) { c.Set(userContextKey, u) }

// GetUser returns the identity attached by an auth strategy, if any.
func GetUser(c echo.Context) (repository.User, bool) {
	u, ok := c.Get(userContextKey).(repository.User)
	return u, ok
}

// PasswordAuth returns the password strategy of the auth gate: it extracts
// Basic-auth email and password, verifies them against the credential store
// and attaches the user to the context. Used only on the login route. All
// failures answer a uniform 401 so callers cannot probe which part was
// wrong (no user enumeration).
func PasswordAuth(users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, password, ok := c.Request().BasicAuth()
			if !ok || email == "" || password == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"reason": "invalid credentials"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
			defer cancel()

			u, err := users.GetByEmail(ctx, email)
			if err != nil || !utils.VerifyPassword(u.PasswordHash, password) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"reason": "invalid credentials"})
			}

			SetUser(c, u)
			return next(c)
		}
	}
}

// TokenAuth returns the token strategy of the auth gate: it extracts a
// Bearer token, resolves it through the token store and attaches the owning
// user to the context. Used on every protected route except login.
func TokenAuth(tokens *repository.TokenRepo, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"reason": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
			defer cancel()

			userID, err := tokens.Lookup(ctx, utils.HashToken(raw))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"reason": "invalid token"})
			}
			u, err := users.GetByID(ctx, userID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"reason": "invalid token"})
			}

			SetUser(c, u)
			return next(c)
		}
	}
}
