package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/savemate/deals-api/internal/core/domain"
)

// errorBody is the canonical error envelope for all API errors.
type errorBody struct {
	Code      domain.ErrorCode `json:"code"`
	Message   string           `json:"message"`
	Details   map[string]any   `json:"details,omitempty"`
	RequestID string           `json:"requestId,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes by error code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": {code, message, ...}}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		body.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)
		_ = c.JSON(status, errorResponse{Error: body})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorBody) {
	var derr *domain.Error
	if errors.As(err, &derr) {
		return statusFor(derr.Code), errorBody{
			Code:    derr.Code,
			Message: derr.Message,
			Details: derr.Details,
		}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorBody{
			Code:    codeForStatus(he.Code),
			Message: fmt.Sprintf("%v", he.Message),
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorBody{
		Code:    domain.CodeInternal,
		Message: "Internal server error",
	}
}

func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func codeForStatus(status int) domain.ErrorCode {
	switch status {
	case http.StatusBadRequest:
		return domain.CodeValidation
	case http.StatusUnauthorized:
		return domain.CodeUnauthorized
	case http.StatusForbidden:
		return domain.CodeForbidden
	case http.StatusNotFound:
		return domain.CodeNotFound
	case http.StatusConflict:
		return domain.CodeConflict
	default:
		return domain.CodeInternal
	}
}
