package users

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, m *Middleware) {
	h := &handler{}

	g := e.Group("/me")
	g.Use(m.Identify)

	g.GET("", h.me)
}
