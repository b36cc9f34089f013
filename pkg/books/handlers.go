package books

import (
	"net/http"

	"github.com/deepreadapp/deepread/pkg/errcodes"
	"github.com/deepreadapp/deepread/pkg/models"
	"github.com/deepreadapp/deepread/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	bookService *Service
}

// list returns the user's library, most recently read first.
// GET /books.
func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := users.FromContext(c)
	if !ok {
		return errcodes.Unauthorized("An X-User-ID header is required.")
	}

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, total, err := h.bookService.ListBooksWithTotal(ctx, ListBooksOptions{
		UserID: &user.ID,
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{
		"books": books,
		"total": total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

// create imports a book from file-picker metadata.
// POST /books.
func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := users.FromContext(c)
	if !ok {
		return errcodes.Unauthorized("An X-User-ID header is required.")
	}

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	var format models.BookFormat
	if params.Format != nil {
		format = models.BookFormat(*params.Format)
	} else {
		mimeType := ""
		if params.File.Type != nil {
			mimeType = *params.File.Type
		}
		detected, ok := DetectFormat(mimeType, params.File.Name)
		if !ok {
			return errcodes.ValidationError("format could not be inferred from the file; pass it explicitly")
		}
		format = detected
	}

	title := ""
	if params.Title != nil {
		title = *params.Title
	}
	if title == "" {
		title = TitleFromFilename(params.File.Name)
	}

	book := &models.Book{
		UserID:      user.ID,
		Title:       title,
		Author:      params.Author,
		ISBN:        params.ISBN,
		CoverURL:    params.CoverURL,
		Format:      format,
		FilePath:    params.File.Name,
		FileURI:     &params.File.URI,
		FileCopyURI: params.File.FileCopyURI,
		FileSize:    params.File.Size,
	}

	created, err := h.bookService.CreateBook(ctx, book)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, created))
}

// retrieve returns one of the user's books.
// GET /books/:id.
func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := users.FromContext(c)
	if !ok {
		return errcodes.Unauthorized("An X-User-ID header is required.")
	}

	id := c.Param("id")
	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID:     &id,
		UserID: &user.ID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

// update applies a partial patch to one of the user's books.
// PATCH /books/:id.
func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := users.FromContext(c)
	if !ok {
		return errcodes.Unauthorized("An X-User-ID header is required.")
	}

	id := c.Param("id")

	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// Ownership check; a foreign book reads as absent.
	if _, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id, UserID: &user.ID}); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.UpdateBook(ctx, id, UpdateBookOptions{
		Title:    params.Title,
		Author:   params.Author,
		ISBN:     params.ISBN,
		CoverURL: params.CoverURL,
		Progress: params.Progress,
		LastCFI:  params.LastCFI,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

// updateProgress saves the reading position.
// PUT /books/:id/progress.
func (h *handler) updateProgress(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := users.FromContext(c)
	if !ok {
		return errcodes.Unauthorized("An X-User-ID header is required.")
	}

	id := c.Param("id")

	params := UpdateProgressPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if _, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id, UserID: &user.ID}); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.UpdateProgress(ctx, id, params.Progress, params.LastCFI)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

// deleteBook soft-deletes one of the user's books.
// DELETE /books/:id.
func (h *handler) deleteBook(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := users.FromContext(c)
	if !ok {
		return errcodes.Unauthorized("An X-User-ID header is required.")
	}

	id := c.Param("id")

	if _, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id, UserID: &user.ID}); err != nil {
		return errors.WithStack(err)
	}

	if err := h.bookService.DeleteBook(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
