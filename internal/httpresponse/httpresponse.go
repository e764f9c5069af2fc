// Package httpresponse renders service results and errors as JSON responses.
package httpresponse

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/apperr"
)

// ErrorDetail is the payload of an error response.
type ErrorDetail struct {
	Code    apperr.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Details string           `json:"details"`
}

// ErrorBody wraps ErrorDetail as {"error": {...}}.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code apperr.ErrorCode) int {
	switch code {
	case apperr.CodeValidationFailed, apperr.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	case apperr.CodeUpstreamError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ApplyErrorToResponse writes err as an error body. Errors that are not
// StandardErrors are reported as INTERNAL. Internal details never reach the client.
func ApplyErrorToResponse(c *fiber.Ctx, err error) error {
	var se *apperr.StandardError
	if !errors.As(err, &se) {
		se = apperr.NewInternalError(err)
	}
	detail := ErrorDetail{Code: se.Code, Message: se.Message, Details: se.Details}
	if se.Code == apperr.CodeInternal {
		detail.Details = ""
	}
	return c.Status(StatusFor(se.Code)).JSON(ErrorBody{Error: detail})
}

// ApplySuccessToResponse writes data with status 200. A nil payload becomes {"status":"ok"}.
func ApplySuccessToResponse(c *fiber.Ctx, data interface{}) error {
	if data == nil {
		return c.JSON(fiber.Map{"status": "ok"})
	}
	return c.JSON(data)
}

// ErrorHandler is the app-wide fiber error handler. Routing errors such as
// unknown paths keep their status and are given an error body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := apperr.CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = apperr.CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusMethodNotAllowed, fiber.StatusUnprocessableEntity:
			code = apperr.CodeInvalidArgument
		}
		return c.Status(fe.Code).JSON(ErrorBody{Error: ErrorDetail{
			Code:    code,
			Message: strings.ToLower(fe.Message),
		}})
	}
	return ApplyErrorToResponse(c, err)
}
