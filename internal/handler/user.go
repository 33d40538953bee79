package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/posts-api/internal/repository"
)

// UserHandler serves the read and profile-update endpoints for users.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler {
	return &UserHandler{Users: u}
}

// GetUser handles GET /user/:id.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"reason": "Couldn't find any user with that ID"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"reason": "query failed"})
	}
	return c.JSON(http.StatusOK, renderUser(u))
}

// GetAllUsers handles GET /users.
func (h *UserHandler) GetAllUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"reason": "query failed"})
	}

	out := make([]userJSON, 0, len(users))
	for _, u := range users {
		out = append(out, renderUser(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Me handles GET /me and returns the logged-in user.
func (h *UserHandler) Me(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	return c.JSON(http.StatusOK, renderUser(u))
}

// UpdateUser handles PUT /user. Name is the only field a user may change.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil || body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "Please provide a name"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.UpdateName(ctx, u.ID, body.Name); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"reason": "update failed"})
	}

	u.Name = body.Name
	return c.JSON(http.StatusOK, renderUser(u))
}
