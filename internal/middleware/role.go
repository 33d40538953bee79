package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/posts-api/internal/repository"
)

// RequireAdmin enforces that the already-authenticated identity carries the
// "admin" role. It assumes TokenAuth ran earlier in the chain and resolves
// the role through the registry rather than trusting anything client-sent.
// Non-admins get 403; a missing identity means the chain was miswired and
// is treated as 401.
func RequireAdmin(roles *repository.RoleRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := GetUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"reason": "missing bearer token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
			defer cancel()

			role, err := roles.GetByID(ctx, u.RoleID)
			if err != nil || role.Type != repository.RoleAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"reason": "forbidden"})
			}
			return next(c)
		}
	}
}
