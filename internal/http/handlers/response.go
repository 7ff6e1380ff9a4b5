// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response envelope and the single place where service
// errors become HTTP statuses. Every JSON body carries a boolean "success";
// failures add "error", "code" and "request_id".
//
//	HTTP/1.1 404 Not Found
//	{"success": false, "error": "Record not found", "code": "not_found", "request_id": "…"}
//
//	HTTP/1.1 200 OK
//	{"success": true, "image_url": "http://127.0.0.1:5000/generated/gen_….png"}
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-imagegen-backend/internal/http/middleware"
	"github.com/tbourn/go-imagegen-backend/internal/services"
)

// MsgTooLarge is returned when the request body exceeds the configured cap.
const MsgTooLarge = "Request body too large"

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Always false.
	Success bool `json:"success" example:"false"`
	// Human-readable message (safe to show to users)
	Error string `json:"error" example:"Prompt is required"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"bad_request"`
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// SuccessResponse is returned by endpoints without a payload.
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// fail aborts the request with a structured error. 5xx responses are logged
// with the request-scoped logger, including cause when given.
func fail(c *gin.Context, status int, code, msg string, cause error) {
	if status >= http.StatusInternalServerError {
		ev := middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg)
		if cause != nil {
			ev = ev.Err(cause)
		}
		ev.Msg("api error")
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Success:   false,
		Error:     msg,
		Code:      code,
		RequestID: middleware.RequestIDFrom(c),
	})
}

// Fail is the exported variant of fail() for router-level fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg, nil) }

// respondError translates a service error into the envelope. It is the only
// place handlers turn errors into statuses.
func respondError(c *gin.Context, err error) {
	msg := services.MessageOf(err)
	switch services.KindOf(err) {
	case services.KindValidation:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msg, nil)
	case services.KindUnauthorized:
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, msg, nil)
	case services.KindNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, msg, nil)
	case services.KindConflict:
		fail(c, http.StatusConflict, ErrCodeConflict, msg, nil)
	case services.KindUpstream:
		fail(c, http.StatusInternalServerError, ErrCodeUpstream, msg, err)
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, services.MsgInternal, err)
	}
}

// failBind answers a request whose body could not be read or decoded.
func failBind(c *gin.Context, err error, msg string) {
	if isTooLarge(err) {
		fail(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, MsgTooLarge, nil)
		return
	}
	fail(c, http.StatusBadRequest, ErrCodeBadRequest, msg, nil)
}

// isTooLarge reports whether err stems from http.MaxBytesReader. Multipart
// parsing does not always wrap the original error, hence the text match.
func isTooLarge(err error) bool {
	if err == nil {
		return false
	}
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
