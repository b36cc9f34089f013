package users

import (
	"strings"

	"github.com/deepreadapp/deepread/pkg/errcodes"
	"github.com/deepreadapp/deepread/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// HeaderUserID carries the device-local user identifier. There are no
// credentials; the database lives on the same device as its only caller.
const HeaderUserID = "X-User-ID"

type Middleware struct {
	userService *Service
}

func NewMiddleware(userService *Service) *Middleware {
	return &Middleware{userService: userService}
}

// Identify resolves the X-User-ID header through CreateOrGet and stores the
// user in the echo context, so every request also refreshes last_login_at.
func (m *Middleware) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
		if id == "" {
			return errcodes.Unauthorized("An X-User-ID header is required.")
		}

		user, err := m.userService.CreateOrGet(c.Request().Context(), id)
		if err != nil {
			return errors.WithStack(err)
		}

		c.Set("user", user)
		return next(c)
	}
}

// FromContext returns the user resolved by Identify.
func FromContext(c echo.Context) (*models.User, bool) {
	user, ok := c.Get("user").(*models.User)
	return user, ok
}
