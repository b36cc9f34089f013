package annotations

import (
	"net/http"

	"github.com/deepreadapp/deepread/pkg/books"
	"github.com/deepreadapp/deepread/pkg/errcodes"
	"github.com/deepreadapp/deepread/pkg/models"
	"github.com/deepreadapp/deepread/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	annotationService *Service
	bookService       *books.Service
}

// list returns a book's annotations, newest first.
// GET /books/:id/annotations.
func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := users.FromContext(c)
	if !ok {
		return errcodes.Unauthorized("An X-User-ID header is required.")
	}

	bookID := c.Param("id")

	// The book must exist and belong to the caller.
	if _, err := h.bookService.RetrieveBook(ctx, books.RetrieveBookOptions{ID: &bookID, UserID: &user.ID}); err != nil {
		return errors.WithStack(err)
	}

	annotations, err := h.annotationService.ListAnnotations(ctx, ListAnnotationsOptions{
		BookID: &bookID,
		UserID: &user.ID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{
		"annotations": annotations,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

// create anchors a new annotation to a book.
// POST /books/:id/annotations.
func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := users.FromContext(c)
	if !ok {
		return errcodes.Unauthorized("An X-User-ID header is required.")
	}

	bookID := c.Param("id")

	if _, err := h.bookService.RetrieveBook(ctx, books.RetrieveBookOptions{ID: &bookID, UserID: &user.ID}); err != nil {
		return errors.WithStack(err)
	}

	params := CreateAnnotationPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	annotation := &models.Annotation{
		BookID:       bookID,
		UserID:       user.ID,
		Type:         models.AnnotationType(params.Type),
		CFIRange:     params.CFIRange,
		SelectedText: params.SelectedText,
		Color:        params.Color,
		NoteText:     params.NoteText,
	}

	created, err := h.annotationService.CreateAnnotation(ctx, annotation)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, created))
}

// update patches an annotation's color or note text.
// PATCH /annotations/:id.
func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := users.FromContext(c)
	if !ok {
		return errcodes.Unauthorized("An X-User-ID header is required.")
	}

	id := c.Param("id")

	params := UpdateAnnotationPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// Ownership check; a foreign annotation reads as absent.
	if _, err := h.annotationService.RetrieveAnnotation(ctx, RetrieveAnnotationOptions{ID: &id, UserID: &user.ID}); err != nil {
		return errors.WithStack(err)
	}

	annotation, err := h.annotationService.UpdateAnnotation(ctx, id, UpdateAnnotationOptions{
		Color:    params.Color,
		NoteText: params.NoteText,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, annotation))
}

// deleteAnnotation soft-deletes an annotation.
// DELETE /annotations/:id.
func (h *handler) deleteAnnotation(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := users.FromContext(c)
	if !ok {
		return errcodes.Unauthorized("An X-User-ID header is required.")
	}

	id := c.Param("id")

	if _, err := h.annotationService.RetrieveAnnotation(ctx, RetrieveAnnotationOptions{ID: &id, UserID: &user.ID}); err != nil {
		return errors.WithStack(err)
	}

	if err := h.annotationService.DeleteAnnotation(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
