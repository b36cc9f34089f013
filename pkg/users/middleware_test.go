package users

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deepreadapp/deepread/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentify(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	m := NewMiddleware(NewService(db))

	e := echo.New()

	newContext := func(userID string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if userID != "" {
			req.Header.Set(HeaderUserID, userID)
		}
		return e.NewContext(req, httptest.NewRecorder())
	}

	t.Run("rejects requests without the header", func(t *testing.T) {
		c := newContext("")
		err := m.Identify(func(echo.Context) error { return nil })(c)
		require.Error(t, err)

		codedErr := &errcodes.Error{}
		require.ErrorAs(t, err, &codedErr)
		assert.Equal(t, http.StatusUnauthorized, codedErr.HTTPCode)
	})

	t.Run("creates the user on first sight and stores it in context", func(t *testing.T) {
		c := newContext("device-new")
		err := m.Identify(func(c echo.Context) error {
			user, ok := FromContext(c)
			require.True(t, ok)
			assert.Equal(t, "device-new", user.ID)
			return nil
		})(c)
		require.NoError(t, err)
	})

	t.Run("resolves the same user on repeat requests", func(t *testing.T) {
		var firstCreatedAt int64

		c := newContext("device-repeat")
		err := m.Identify(func(c echo.Context) error {
			user, _ := FromContext(c)
			firstCreatedAt = user.CreatedAt
			return nil
		})(c)
		require.NoError(t, err)

		c = newContext("device-repeat")
		err = m.Identify(func(c echo.Context) error {
			user, _ := FromContext(c)
			assert.Equal(t, firstCreatedAt, user.CreatedAt)
			return nil
		})(c)
		require.NoError(t, err)
	})
}
