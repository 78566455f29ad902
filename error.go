package metascan

import (
	"errors"
	"fmt"
	"strings"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
	EFETCH    = "fetch"
	ENETWORK  = "network"
	EPARSE    = "parse"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("metascan error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Typed pipeline errors map to their codes; other errors return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	var ve *ValidationError
	var fe *FetchError
	var ne *NetworkError
	switch {
	case errors.As(err, &e):
		return e.Code
	case errors.As(err, &ve):
		return EINVALID
	case errors.As(err, &fe):
		return EFETCH
	case errors.As(err, &ne):
		return ENETWORK
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return their own text.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ValidationError reports input lines that are not plausible URLs.
// It halts a batch before any network call.
type ValidationError struct {
	Invalid []string
}

func (e *ValidationError) Error() string {
	return "invalid URLs: " + strings.Join(e.Invalid, ", ")
}

// FetchError reports a response with a non-success status.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("error %d: %s", e.StatusCode, e.Status)
}

// NetworkError reports a transport failure (DNS, timeout, connection reset).
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
