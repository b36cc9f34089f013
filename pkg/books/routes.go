package books

import (
	"github.com/deepreadapp/deepread/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes mounts the book endpoints on the given Echo instance.
func RegisterRoutes(e *echo.Echo, db *bun.DB, m *users.Middleware) {
	h := &handler{
		bookService: NewService(db),
	}

	g := e.Group("/books")
	g.Use(m.Identify)

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.retrieve)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.deleteBook)
	g.PUT("/:id/progress", h.updateProgress)
}
