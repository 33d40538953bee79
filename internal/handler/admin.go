package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Hello is the admin-only probe route.
func Hello(c echo.Context) error {
	return c.String(http.StatusOK, "You have accessed a protected route")
}
