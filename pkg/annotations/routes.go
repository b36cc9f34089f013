package annotations

import (
	"github.com/deepreadapp/deepread/pkg/books"
	"github.com/deepreadapp/deepread/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes mounts the annotation endpoints on the given Echo instance.
// Listing and creation are nested under the owning book; mutation of an
// existing annotation addresses it directly.
func RegisterRoutes(e *echo.Echo, db *bun.DB, m *users.Middleware) {
	h := &handler{
		annotationService: NewService(db),
		bookService:       books.NewService(db),
	}

	bg := e.Group("/books/:id/annotations")
	bg.Use(m.Identify)

	bg.GET("", h.list)
	bg.POST("", h.create)

	g := e.Group("/annotations")
	g.Use(m.Identify)

	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.deleteAnnotation)
}
