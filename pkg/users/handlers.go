package users

import (
	"net/http"

	"github.com/deepreadapp/deepread/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct{}

// me returns the user resolved from the identity header.
// GET /me.
func (h *handler) me(c echo.Context) error {
	user, ok := FromContext(c)
	if !ok {
		return errcodes.Unauthorized("An X-User-ID header is required.")
	}

	return errors.WithStack(c.JSON(http.StatusOK, user))
}
