package settings

import (
	"github.com/deepreadapp/deepread/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB, m *users.Middleware) {
	h := &handler{
		settingsService: NewService(db),
	}

	g := e.Group("/settings")
	g.Use(m.Identify)

	g.GET("", h.retrieve)
	g.PATCH("", h.update)
}
