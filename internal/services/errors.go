// Package services defines the business logic for generation, history and
// accounts. This file centralizes the service-level error type so that every
// service method reports failures the same way and the HTTP layer has a
// single place where errors become status codes.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer; services only pick a Kind and a client-safe message.
package services

import (
	"errors"
)

// Kind classifies a service error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindConflict
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error is the single error type returned by services. Msg is safe to show
// to clients; Err keeps the underlying cause for logs and errors.Is.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(k Kind, msg string, cause error) *Error { return &Error{Kind: k, Msg: msg, Err: cause} }

// Validation reports bad client input.
func Validation(msg string) *Error { return newErr(KindValidation, msg, nil) }

// Unauthorized reports a missing or unusable credential.
func Unauthorized(msg string, cause error) *Error { return newErr(KindUnauthorized, msg, cause) }

// NotFound reports a missing (or inaccessible) record.
func NotFound(msg string) *Error { return newErr(KindNotFound, msg, nil) }

// Conflict reports a uniqueness violation.
func Conflict(msg string) *Error { return newErr(KindConflict, msg, nil) }

// Upstream reports a failure of the remote model.
func Upstream(msg string, cause error) *Error { return newErr(KindUpstream, msg, cause) }

// Internal wraps an unexpected failure behind a generic message.
func Internal(cause error) *Error { return newErr(KindInternal, MsgInternal, cause) }

// KindOf returns the Kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return MsgInternal
}

// MsgInternal is the message shown for every unexpected failure.
const MsgInternal = "Database or Server Error"

// Input validation errors.
var (
	ErrPromptRequired   = Validation("Prompt is required")
	ErrPromptEmpty      = Validation("Prompt cannot be empty")
	ErrImageRequired    = Validation("Image is required")
	ErrNoImageSelected  = Validation("No image selected")
	ErrMissingFiles     = Validation("Missing files")
	ErrUnsupportedImage = Validation("Unsupported image type")
	ErrSceneCount       = Validation("Scenes must be between 1 and 4")
	ErrToolRequired     = Validation("tool required")
	ErrUnknownTool      = Validation("Unknown tool")
	ErrInvalidID        = Validation("Invalid id")
	ErrCredentials      = Validation("username, email and password are required")
	ErrLoginFields      = Validation("username and password are required")
	ErrWeakPassword     = Validation("Password must be at least 8 characters")
	ErrInvalidEmail     = Validation("Invalid email")
	ErrInvalidUsername  = Validation("Username must be 3 to 80 characters")
)

// Lookup and account errors.
var (
	ErrRecordNotFound = NotFound("Record not found")
	ErrUserExists     = Conflict("Username or email already registered")
)

// Messages shared across services.
const (
	MsgTokenMissing      = "Token is missing"
	MsgTokenFormat       = "Invalid token format"
	MsgTokenInvalid      = "Token is invalid or expired"
	MsgUserNotFound      = "User not found"
	MsgBadCredentials    = "Invalid username or password"
	MsgGenerationFailed  = "Image generation failed"
	MsgTextGenerationErr = "Text generation failed"
)
