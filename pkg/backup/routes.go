package backup

import (
	"github.com/deepreadapp/deepread/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes mounts the backup endpoint on the given Echo instance.
func RegisterRoutes(e *echo.Echo, db *bun.DB, m *users.Middleware) {
	h := &handler{
		backupService: NewService(db),
	}

	g := e.Group("/backup")
	g.Use(m.Identify)

	g.GET("", h.export)
}
