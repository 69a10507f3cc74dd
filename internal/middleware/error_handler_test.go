package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"ssf-backend/internal/domain"
	"ssf-backend/internal/pkg/validation"
	"ssf-backend/internal/replica"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("listing x: %w", replica.ErrNotFound), fiber.StatusNotFound},
		{fmt.Errorf("%w: claimed -> claimed", domain.ErrInvalidTransition), fiber.StatusConflict},
		{domain.ErrUnknownField, fiber.StatusBadRequest},
		{&validation.Errors{Fields: map[string]string{"title": "required"}}, fiber.StatusBadRequest},
		{fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), fiber.StatusMethodNotAllowed},
		{errors.New("disk full"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func errorApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/", func(c *fiber.Ctx) error { return err })
	return app
}

func decode(t *testing.T, app *fiber.App) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestErrorHandler_ValidationFields(t *testing.T) {
	code, out := decode(t, errorApp(&validation.Errors{Fields: map[string]string{"quantity": "must be greater than 0"}}))
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "error", out["status"])
	fields := out["error"].(map[string]interface{})["fields"].(map[string]interface{})
	assert.Equal(t, "must be greater than 0", fields["quantity"])
}

func TestErrorHandler_CarriesTraceID(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(Tracing())
	app.Get("/", func(c *fiber.Ctx) error { return replica.ErrNotFound })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Trace-Id", "trace-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "trace-123", out["error"].(map[string]interface{})["traceId"])
}

func TestErrorHandler_HidesInternalMessage(t *testing.T) {
	code, out := decode(t, errorApp(errors.New("save listings: disk full")))
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "Internal Server Error", out["error"].(map[string]interface{})["message"])
}
