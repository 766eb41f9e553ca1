// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all endpoints,
// including structured error envelopes, consistent JSON serialization, and
// helpers for common HTTP patterns. The goal is to guarantee uniform responses
// for both success and failure cases, making the API predictable and
// machine-friendly.
//
// Conventions:
//   - All error responses must return an ErrorResponse with a stable `code`.
//   - `fail()` centralizes error logging and formatting, ensuring 5xx responses
//     are logged with request context for observability.
//   - `ok()` and `noContent()` simplify writing success responses in a consistent
//     shape across handlers.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "resource not found"
//	}
//
// Example success response:
//
//	HTTP/1.1 200 OK
//	{ "response": "Hello! How can I help?" }
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/claim-gateway/internal/analysis"
	"github.com/tbourn/claim-gateway/internal/http/middleware"
	"github.com/tbourn/claim-gateway/internal/services"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// Fields:
//   - RequestID: Optional correlation ID, echoed from X-Request-ID header, used
//     to correlate server logs with client-side errors.
//   - Code: A stable, machine-readable string (see errors.go constants).
//   - Message: A human-readable error description, safe for display to users.
//
// This struct is used in OpenAPI documentation via Swagger annotations.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"upstream_failed"`
	// Human-readable message; for upstream failures, the literal analysis error
	Message string `json:"message" example:"Ukweli API internal error"`
}

// fail aborts the request with a structured error and logs server-side errors.
//
// It constructs an ErrorResponse, writes it as JSON with the given HTTP status,
// and calls gin.Context.AbortWithStatusJSON to stop further processing.
//
// Server errors (>=500) are logged using the request-scoped logger from middleware.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	resp := ErrorResponse{
		RequestID: reqID,
		Code:      code,
		Message:   msg,
	}

	// Log 5xx (server-side) with request-scoped logger
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail().
//
// External packages (e.g., router setup) should call Fail to return
// consistent error envelopes without directly depending on unexported helpers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
//
// It serializes `body` as JSON with the given HTTP status code.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// failFor maps a service or analysis error to its HTTP status and code.
//
//   - services.ErrInvalidPayload, services.ErrUnreadableFile: 400
//   - services.ErrInvalidAPIKey: 401
//   - services.ErrLogNotFound: 404
//   - any analysis client error: 502 with the literal message
//   - anything else (storage included): 500 with a generic message
func failFor(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidPayload):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
	case errors.Is(err, services.ErrUnreadableFile):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, services.ErrUnreadableFile.Error())
	case errors.Is(err, services.ErrInvalidAPIKey):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, services.ErrInvalidAPIKey.Error())
	case errors.Is(err, services.ErrLogNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "MessageLog not found")
	case analysis.IsAnalysisError(err):
		fail(c, http.StatusBadGateway, ErrCodeUpstreamFailed, err.Error())
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}

// noContent writes an HTTP 204 No Content response.
//
// Used when the operation succeeds but there is no response body.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
