package chaterror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	BadRequest   ErrorType = "bad_request"
	Unauthorized ErrorType = "unauthorized"
	Forbidden    ErrorType = "forbidden"
	NotFound     ErrorType = "not_found"
	RateLimit    ErrorType = "rate_limit"
	Offline      ErrorType = "offline"
)

type Surface string

const (
	SurfaceChat        Surface = "chat"
	SurfaceAuth        Surface = "auth"
	SurfaceApi         Surface = "api"
	SurfaceStream      Surface = "stream"
	SurfaceDatabase    Surface = "database"
	SurfaceHistory     Surface = "history"
	SurfaceDocument    Surface = "document"
	SurfaceSuggestions Surface = "suggestions"
)

const GenericMessage = "Something went wrong. Please try again later."

// StreamErrorMessage is the only error text a client sees once streaming started.
const StreamErrorMessage = "Oops, an error occurred!"

// ChatError is the typed failure every HTTP surface of the chat API answers with.
// Its wire code is "type:surface".
type ChatError struct {
	Type    ErrorType
	Surface Surface
	Cause   string
	err     error
}

func New(t ErrorType, s Surface, cause ...string) *ChatError {
	e := &ChatError{Type: t, Surface: s}
	if len(cause) > 0 {
		e.Cause = cause[0]
	}
	return e
}

// Database wraps a storage failure. The cause is kept for logs only.
func Database(err error) *ChatError {
	return &ChatError{Type: BadRequest, Surface: SurfaceDatabase, err: err}
}

func (e *ChatError) Code() string {
	return fmt.Sprintf("%s:%s", e.Type, e.Surface)
}

func (e *ChatError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Code(), e.err)
	}
	if e.Cause != "" {
		return fmt.Sprintf("%s: %s", e.Code(), e.Cause)
	}
	return e.Code()
}

func (e *ChatError) Unwrap() error {
	return e.err
}

func (e *ChatError) StatusCode() int {
	switch e.Type {
	case BadRequest:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case RateLimit:
		return http.StatusTooManyRequests
	case Offline:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Visible reports whether the error may be shown to the caller as-is.
// Database errors are logged and answered with a generic message.
func (e *ChatError) Visible() bool {
	return e.Surface != SurfaceDatabase
}

func (e *ChatError) Message() string {
	if e.Surface == SurfaceDatabase {
		return "An error occurred while executing a database query."
	}

	switch e.Code() {
	case "bad_request:api":
		return "The request couldn't be processed. Please check your input and try again."
	case "unauthorized:auth":
		return "You need to sign in before continuing."
	case "forbidden:auth":
		return "Your account does not have access to this feature."
	case "rate_limit:chat":
		return "You have exceeded your maximum number of messages for the day. Please try again later."
	case "not_found:chat":
		return "The requested chat was not found. Please check the chat ID and try again."
	case "forbidden:chat":
		return "This chat belongs to another user. Please check the chat ID and try again."
	case "unauthorized:chat":
		return "You need to sign in to view this chat. Please sign in and try again."
	case "offline:chat":
		return "We're having trouble sending your message. Please check your internet connection and try again."
	case "not_found:document":
		return "The requested document was not found. Please check the document ID and try again."
	case "forbidden:document":
		return "This document belongs to another user. Please check the document ID and try again."
	case "unauthorized:document":
		return "You need to sign in to view this document. Please sign in and try again."
	case "bad_request:document":
		return "The request to create or update the document was invalid. Please check your input and try again."
	case "unauthorized:suggestions":
		return "You need to sign in to view suggestions. Please sign in and try again."
	case "forbidden:api":
		return "You do not have access to this resource."
	case "bad_request:history":
		return "The chat history request was invalid. Please check your input and try again."
	default:
		return GenericMessage
	}
}

// Response is the JSON body sent for a ChatError.
type Response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
}

func (e *ChatError) Response() Response {
	if !e.Visible() {
		return Response{Code: "", Message: GenericMessage}
	}
	return Response{Code: e.Code(), Message: e.Message(), Cause: e.Cause}
}

// As extracts a ChatError from an error chain.
func As(err error) (*ChatError, bool) {
	var ce *ChatError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// Is reports whether err carries a ChatError with the given type and surface.
func Is(err error, t ErrorType, s Surface) bool {
	ce, ok := As(err)
	return ok && ce.Type == t && ce.Surface == s
}
