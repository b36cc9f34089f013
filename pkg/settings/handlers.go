package settings

import (
	"net/http"

	"github.com/deepreadapp/deepread/pkg/errcodes"
	"github.com/deepreadapp/deepread/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	settingsService *Service
}

// retrieve returns the user's settings, creating defaults on first access.
// GET /settings.
func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := users.FromContext(c)
	if !ok {
		return errcodes.Unauthorized("An X-User-ID header is required.")
	}

	settings, err := h.settingsService.GetOrCreate(ctx, user.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, settings))
}

// update applies a partial settings patch.
// PATCH /settings.
func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := users.FromContext(c)
	if !ok {
		return errcodes.Unauthorized("An X-User-ID header is required.")
	}

	params := UpdateSettingsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// First access through the patch path still starts from defaults.
	if _, err := h.settingsService.GetOrCreate(ctx, user.ID); err != nil {
		return errors.WithStack(err)
	}

	settings, err := h.settingsService.UpdateSettings(ctx, user.ID, UpdateSettingsOptions{
		DarkMode:     params.DarkMode,
		FontSize:     params.FontSize,
		Language:     params.Language,
		OpenAIAPIKey: params.OpenAIAPIKey,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, settings))
}
