package httpresponse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/apperr"
)

func TestStatusFor(t *testing.T) {
	tests := map[apperr.ErrorCode]int{
		apperr.CodeValidationFailed: http.StatusBadRequest,
		apperr.CodeInvalidArgument:  http.StatusBadRequest,
		apperr.CodeNotFound:         http.StatusNotFound,
		apperr.CodeUpstreamTimeout:  http.StatusGatewayTimeout,
		apperr.CodeUpstreamError:    http.StatusBadGateway,
		apperr.CodeInternal:         http.StatusInternalServerError,
		"SOMETHING_ELSE":            http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, StatusFor(code), code)
	}
}

func respond(t *testing.T, err error) (int, ErrorBody) {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/", func(c *fiber.Ctx) error { return ApplyErrorToResponse(c, err) })

	resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, testErr)
	defer resp.Body.Close()
	var body ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestApplyErrorToResponse(t *testing.T) {
	status, body := respond(t, fmt.Errorf("lookup: %w", apperr.NewNotFoundError("nonprofit", "74-0000000")))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperr.CodeNotFound, body.Error.Code)
	assert.Equal(t, "74-0000000", body.Error.Details)

	status, body = respond(t, errors.New("pq: password authentication failed"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, apperr.CodeInternal, body.Error.Code)
	assert.Empty(t, body.Error.Details)
}

func TestErrorHandlerUnknownRoute(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, apperr.CodeNotFound, body.Error.Code)
}

func TestApplySuccessToResponse(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return ApplySuccessToResponse(c, nil) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}
