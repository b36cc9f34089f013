package binder

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Title  string `json:"title" mod:"trim" validate:"max=9"`
	Format string `json:"format" validate:"omitempty,bookformat"`
}

var (
	goodJSON             = `{"title":" dune "}`
	unknownFieldsErrJSON = `{"title":"dune","foo":"bar"}`
	typeErrJSON          = `{"title":123}`
	validationErrJSON    = `{"title":"0123456789"}`
	badFormatJSON        = `{"title":"dune","format":"MOBI"}`
	goodFormatJSON       = `{"title":"dune","format":"ePub"}`
)

func TestNew(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)
	assert.NotNil(t, b)

	t.Run("only allows application/json", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationXML)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(tt *testing.T) {
		c := newContext(unknownFieldsErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		c := newContext(typeErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"title" should be of type string`)
	})

	t.Run("use mod tag to modify params", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "dune", p.Title)
	})

	t.Run("use validate tag to validate params", func(tt *testing.T) {
		c := newContext(validationErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "length must be less than or equal to 9 characters")
	})

	t.Run("rejects unknown book formats", func(tt *testing.T) {
		c := newContext(badFormatJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), `"format" must be one of the following`)
	})

	t.Run("accepts valid book formats", func(tt *testing.T) {
		c := newContext(goodFormatJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "ePub", p.Format)
	})
}

func newContext(payload, mime string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, mime)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}
