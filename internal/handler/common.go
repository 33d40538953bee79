// Package handler contains the HTTP handlers. Wire-format shapes live here
// as dedicated response structs so the repository models stay free of
// serialization concerns.
package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/posts-api/internal/middleware"
	"github.com/iliyamo/posts-api/internal/repository"
)

const dbTimeout = 5 * time.Second

// userJSON is the public shape of a user. The password hash never leaves
// the server.
type userJSON struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// postJSON is the public shape of a post.
type postJSON struct {
	ID       uint64  `json:"id"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Location float64 `json:"location"`
	UserID   uint64  `json:"user_id"`
}

func renderUser(u repository.User) userJSON {
	return userJSON{ID: u.ID, Email: u.Email, Name: u.Name}
}

func renderPost(p repository.Post) postJSON {
	return postJSON{ID: p.ID, Title: p.Title, Content: p.Content, Location: p.Location, UserID: p.UserID}
}

// currentUser returns the identity attached by the auth gate. A missing
// identity on a protected route means the middleware chain was miswired.
func currentUser(c echo.Context) (repository.User, bool) {
	return middleware.GetUser(c)
}

// unauthorized is the uniform response when no identity is attached.
func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"reason": "missing bearer token"})
}
