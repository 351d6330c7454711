package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Validation marks malformed input or a failed operation precondition. The
// message is safe to show to the caller verbatim.
func Validation(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

// NotFound covers both a genuinely absent entity and one owned by another
// company. The two cases are deliberately indistinguishable.
func NotFound(resource string) *Error {
	return New(http.StatusNotFound, "not_found", fmt.Errorf("%s not found", resource))
}

func Conflict(code string, err error) *Error {
	return New(http.StatusConflict, code, err)
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, "internal_error", err)
}

// From classifies an arbitrary error for the HTTP boundary. Anything that is
// not already an *Error is treated as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// IsInternal reports whether the detailed cause must stay operator-only.
func (e *Error) IsInternal() bool {
	return e != nil && e.Status >= http.StatusInternalServerError
}
