package backup

import (
	"fmt"
	"net/http"
	"time"

	"github.com/deepreadapp/deepread/pkg/errcodes"
	"github.com/deepreadapp/deepread/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

type handler struct {
	backupService *Service
}

// export streams a full-library snapshot as a downloadable JSON document.
// GET /backup.
func (h *handler) export(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := users.FromContext(c)
	if !ok {
		return errcodes.Unauthorized("An X-User-ID header is required.")
	}

	export, err := h.backupService.ExportUser(ctx, user.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	payload, err := json.Marshal(export)
	if err != nil {
		return errors.WithStack(err)
	}

	filename := fmt.Sprintf("deepread-backup-%s.json", time.Unix(export.ExportedAt, 0).UTC().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))

	return errors.WithStack(c.Blob(http.StatusOK, echo.MIMEApplicationJSON, payload))
}
