package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/posts-api/internal/repository"
)

// PostHandler serves CRUD on posts. Edit and delete require the requester
// to own the post; violations answer 400 with the literal reason, matching
// the established API contract.
type PostHandler struct {
	Posts *repository.PostRepo
}

func NewPostHandler(p *repository.PostRepo) *PostHandler {
	return &PostHandler{Posts: p}
}

// CreatePost handles POST /posts/create. Location is optional and defaults
// to zero.
func (h *PostHandler) CreatePost(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var body struct {
		Title    string   `json:"title"`
		Content  string   `json:"content"`
		Location *float64 `json:"location"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "invalid request body"})
	}
	if body.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "Please provide a title"})
	}
	if body.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "Please provide some content"})
	}
	var location float64
	if body.Location != nil {
		location = *body.Location
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post := repository.Post{
		Title:    body.Title,
		Content:  body.Content,
		Location: location,
		UserID:   u.ID,
	}
	if err := h.Posts.Create(ctx, &post); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"reason": "create post failed"})
	}
	return c.JSON(http.StatusOK, renderPost(post))
}

// GetPost handles GET /posts/:id.
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"reason": "Couldn't find any post with that ID"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"reason": "query failed"})
	}
	return c.JSON(http.StatusOK, renderPost(post))
}

// GetAllPosts handles GET /posts.
func (h *PostHandler) GetAllPosts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	posts, err := h.Posts.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"reason": "query failed"})
	}

	out := make([]postJSON, 0, len(posts))
	for _, p := range posts {
		out = append(out, renderPost(p))
	}
	return c.JSON(http.StatusOK, out)
}

// UpdatePost handles PUT /posts/:id. Only the owner may edit.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "invalid id"})
	}

	var body struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "invalid request body"})
	}
	if body.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "You must provide a title"})
	}
	if body.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "You must provide content"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"reason": "Couldn't find any post with that ID"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"reason": "query failed"})
	}
	if post.UserID != u.ID {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "You can only edit your own posts"})
	}

	if err := h.Posts.Update(ctx, id, body.Title, body.Content); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"reason": "update failed"})
	}

	post.Title = body.Title
	post.Content = body.Content
	return c.JSON(http.StatusOK, renderPost(post))
}

// DeletePost handles DELETE /posts/:id. Only the owner may delete.
func (h *PostHandler) DeletePost(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"reason": "Couldn't find any post with that ID"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"reason": "query failed"})
	}
	if post.UserID != u.ID {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "You can only delete your own posts."})
	}

	if err := h.Posts.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"reason": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
