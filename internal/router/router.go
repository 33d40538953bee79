// Package router wires the HTTP surface: one group per auth strategy, the
// audit middleware outermost, and the admin check stacked on top of the
// token strategy.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/posts-api/internal/handler"
	"github.com/iliyamo/posts-api/internal/middleware"
	"github.com/iliyamo/posts-api/internal/repository"
)

// Deps carries everything the route table needs. The composition root owns
// the instances and passes shared references here; no ambient state.
type Deps struct {
	Auth  *handler.AuthHandler
	Users *handler.UserHandler
	Posts *handler.PostHandler

	UserRepo  *repository.UserRepo
	RoleRepo  *repository.RoleRepo
	TokenRepo *repository.TokenRepo

	Audit echo.MiddlewareFunc // outermost access logger, optional
	Cache echo.MiddlewareFunc // GET response cache, optional
}

// Register attaches all routes to the Echo instance.
func Register(e *echo.Echo, d Deps) {
	if d.Audit != nil {
		e.Use(d.Audit)
	}

	e.GET("/healthz", handler.Health)
	e.POST("/register", d.Auth.Register)

	// Password strategy: only the login route exchanges credentials for a token.
	login := e.Group("", middleware.PasswordAuth(d.UserRepo))
	login.POST("/login", d.Auth.Login)

	// Token strategy: every other protected route.
	authed := e.Group("", middleware.TokenAuth(d.TokenRepo, d.UserRepo))
	authed.POST("/logout", d.Auth.Logout)

	authed.GET("/user/:id", d.Users.GetUser)
	authed.GET("/users", d.Users.GetAllUsers)
	authed.GET("/me", d.Users.Me)
	authed.PUT("/user", d.Users.UpdateUser)

	var cached []echo.MiddlewareFunc
	if d.Cache != nil {
		cached = append(cached, d.Cache)
	}
	authed.GET("/posts", d.Posts.GetAllPosts, cached...)
	authed.GET("/posts/:id", d.Posts.GetPost, cached...)
	authed.POST("/posts/create", d.Posts.CreatePost)
	authed.PUT("/posts/:id", d.Posts.UpdatePost)
	authed.DELETE("/posts/:id", d.Posts.DeletePost)

	// Admin tier runs strictly after the token strategy.
	admin := authed.Group("", middleware.RequireAdmin(d.RoleRepo))
	admin.GET("/hello", handler.Hello)
}
