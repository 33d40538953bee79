package handler

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/posts-api/internal/config"
	"github.com/iliyamo/posts-api/internal/repository"
	"github.com/iliyamo/posts-api/internal/utils"
)

// AuthHandler bundles dependencies for registration, login and logout.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Roles  *repository.RoleRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, r *repository.RoleRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Roles: r, Tokens: t}
}

// emailRx accepts local@domain with a dot-separated alphabetic TLD of at
// least two letters. Matching is byte case-sensitive elsewhere; the
// character classes here cover both cases.
var emailRx = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type authResp struct {
	Token string   `json:"token"`
	User  userJSON `json:"user"`
}

// Register creates a user with the default "user" role and returns a fresh
// token alongside the user. Duplicate emails are decided by the unique
// index, so two concurrent registrations cannot both succeed.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "invalid request body"})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "Please provide e-mail"})
	}
	if !emailRx.MatchString(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "E-mail is invalid"})
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "Please provide password"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "Please provide name"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	// The default role is seeded at boot; its absence here is a deployment
	// problem, not a client one.
	role, err := h.Roles.GetByType(ctx, repository.RoleUser)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"reason": "default role missing"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"reason": "create user failed"})
	}

	uid, err := h.Users.Create(ctx, req.Email, hash, req.Name, role.ID)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"reason": "A user with that username already exists."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"reason": "create user failed"})
	}

	token, err := h.issueToken(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"reason": "issue token failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		Token: token,
		User:  userJSON{ID: uid, Email: req.Email, Name: req.Name},
	})
}

// Login runs behind the password strategy: the auth gate has already
// verified Basic credentials and attached the user. Each login issues a
// fresh token; earlier tokens stay live (no single-session enforcement).
func (h *AuthHandler) Login(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	token, err := h.issueToken(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"reason": "issue token failed"})
	}

	return c.JSON(http.StatusOK, authResp{Token: token, User: renderUser(u)})
}

// Logout revokes exactly the presented bearer token. Revoking a token that
// is no longer live is an error, not a no-op.
func (h *AuthHandler) Logout(c echo.Context) error {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "invalid token"})
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Tokens.Revoke(ctx, utils.HashToken(raw)); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"reason": "invalid token"})
	}
	return c.NoContent(http.StatusOK)
}

// issueToken generates an opaque token, persists its hash and returns the
// raw value for the client.
func (h *AuthHandler) issueToken(ctx context.Context, userID uint64) (string, error) {
	raw, err := utils.NewToken()
	if err != nil {
		return "", err
	}
	if err := h.Tokens.Store(ctx, userID, utils.HashToken(raw)); err != nil {
		return "", err
	}
	return raw, nil
}
