package validators

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileBody struct {
	UID    string  `json:"uid" validate:"required"`
	Name   string  `json:"displayName" validate:"required,min=2,max=50"`
	Gender *string `json:"gender" validate:"omitempty,gender"`
	Born   *string `json:"dateOfBirth" validate:"omitempty,dateonly"`
	Theme  string  `json:"theme" validate:"omitempty,oneof=light dark"`
}

func httpCode(t *testing.T, err error) (int, string) {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected *echo.HTTPError, got %T", err)
	return he.Code, he.Message.(string)
}

func TestValidate(t *testing.T) {
	v := NewValidator()
	empty, male, bad := "", "male", "robot"
	date, badDate := "1999-12-31", "31/12/1999"

	assert.NoError(t, v.Validate(&profileBody{UID: "u", Name: "Al", Gender: &empty, Born: &date}))
	assert.NoError(t, v.Validate(&profileBody{UID: "u", Name: "Al", Gender: &male}))

	code, msg := httpCode(t, v.Validate(&profileBody{Name: "Al"}))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "uid is required", msg)

	_, msg = httpCode(t, v.Validate(&profileBody{UID: "u", Name: "A"}))
	assert.Equal(t, "displayName must satisfy min=2", msg)

	_, msg = httpCode(t, v.Validate(&profileBody{UID: "u", Name: "Al", Gender: &bad}))
	assert.Equal(t, "gender is not a valid gender", msg)

	_, msg = httpCode(t, v.Validate(&profileBody{UID: "u", Name: "Al", Born: &badDate}))
	assert.Equal(t, "dateOfBirth is not a valid dateonly", msg)

	_, msg = httpCode(t, v.Validate(&profileBody{UID: "u", Name: "Al", Theme: "blue"}))
	assert.Equal(t, "theme must be one of [light dark]", msg)
}

func TestStrictJSONSerializer(t *testing.T) {
	e := echo.New()
	e.JSONSerializer = StrictJSONSerializer{}

	decode := func(body string) error {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c := e.NewContext(req, httptest.NewRecorder())
		var out profileBody
		return c.Bind(&out)
	}

	assert.NoError(t, decode(`{"uid":"u","displayName":"Al"}`))

	code, msg := httpCode(t, decode(`{"uid":"u","email":"x@y.z"}`))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, msg, `unknown field "email"`)

	code, _ = httpCode(t, decode(`{"uid":5}`))
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = httpCode(t, decode(`{"uid":`))
	assert.Equal(t, http.StatusBadRequest, code)
}
