package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Kind is the closed set of failure kinds surfaced to callers.
type Kind string

const (
	KindUnauthenticated  Kind = "UNAUTHENTICATED"
	KindPermissionDenied Kind = "PERMISSION_DENIED"
	KindInvalidArgument  Kind = "INVALID_ARGUMENT"
	KindAlreadyExists    Kind = "ALREADY_EXISTS"
	KindNotFound         Kind = "NOT_FOUND"
	KindInternal         Kind = "INTERNAL"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       Kind
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code Kind, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewUnauthenticated(message string) error {
	return NewDomainError(KindUnauthenticated, message, http.StatusUnauthorized, nil)
}

func NewPermissionDenied(message string) error {
	return NewDomainError(KindPermissionDenied, message, http.StatusForbidden, nil)
}

func NewInvalidArgument(message string, details map[string]any) error {
	return NewDomainError(KindInvalidArgument, message, http.StatusBadRequest, details)
}

func NewAlreadyExists(message string) error {
	return NewDomainError(KindAlreadyExists, message, http.StatusConflict, nil)
}

func NewNotFound(resource string) error {
	return &DomainError{
		Code:       KindNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewInternalError hides err from the caller; it is kept only for logging.
func NewInternalError(err error) error {
	return &DomainError{
		Code:       KindInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fromFiberError(fiberErr)
	}
	return &DomainError{
		Code:       KindInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// KindOf reports the failure kind carried by err, or "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return ToDomainError(err).Code
}

func fromFiberError(err *fiber.Error) *DomainError {
	switch err.Code {
	case http.StatusBadRequest:
		return NewDomainError(KindInvalidArgument, err.Message, err.Code, nil)
	case http.StatusUnauthorized:
		return NewDomainError(KindUnauthenticated, err.Message, err.Code, nil)
	case http.StatusForbidden:
		return NewDomainError(KindPermissionDenied, err.Message, err.Code, nil)
	case http.StatusNotFound:
		return NewDomainError(KindNotFound, err.Message, err.Code, nil)
	case http.StatusConflict:
		return NewDomainError(KindAlreadyExists, err.Message, err.Code, nil)
	}
	if err.Code < http.StatusInternalServerError {
		return NewDomainError(KindInvalidArgument, err.Message, err.Code, nil)
	}
	return &DomainError{
		Code:       KindInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
