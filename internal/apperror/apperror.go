package apperror

import (
	"fmt"
	"net/http"
)

// Kind classifies an operational error so the HTTP layer can pick a status
// code without string matching.
type Kind int

const (
	// Validation flags malformed input.
	Validation Kind = iota + 1
	// Conflict is a unique-constraint violation (follow/like/username/email).
	Conflict
	// NotFound covers missing rows and invalid foreign keys.
	NotFound
	// SelfReference rejects self-follow and self-unfollow.
	SelfReference
	// Operational is an explicitly raised domain error, message safe for clients.
	Operational
	// Internal is everything else; details are withheld from the response.
	Internal
)

// Error is an operational error whose message is safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case Validation, SelfReference, Operational:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) *Error { return New(Validation, format, args...) }

func Conflictf(format string, args ...any) *Error { return New(Conflict, format, args...) }

func NotFoundf(format string, args ...any) *Error { return New(NotFound, format, args...) }

// SelfReferencef flags a self-follow/self-unfollow, rejected before any
// store mutation.
func SelfReferencef(format string, args ...any) *Error { return New(SelfReference, format, args...) }
