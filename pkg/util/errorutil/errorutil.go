package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes surfaced to API clients.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeDuplicateIdentity   = "DUPLICATE_IDENTITY"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeExpiredToken        = "EXPIRED_TOKEN"
	CodeExpiredRefreshToken = "EXPIRED_REFRESH_TOKEN"
	CodeRevokedSession      = "REVOKED_SESSION"
	CodeSessionNotFound     = "SESSION_NOT_FOUND"
	CodeNotAuthorized       = "NOT_AUTHORIZED"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeOrderNotFound       = "ORDER_NOT_FOUND"
	CodeNotFound            = "NOT_FOUND"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternal            = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
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
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "invalid phone or password", http.StatusUnauthorized, nil)
}

func NewDuplicateIdentity(message string, details map[string]any) error {
	return NewDomainError(CodeDuplicateIdentity, message, http.StatusConflict, details)
}

func NewInvalidToken(message string) error {
	return NewDomainError(CodeInvalidToken, message, http.StatusUnauthorized, nil)
}

func NewExpiredToken() error {
	return NewDomainError(CodeExpiredToken, "access token expired", http.StatusUnauthorized, nil)
}

func NewExpiredRefreshToken() error {
	return NewDomainError(CodeExpiredRefreshToken, "refresh token expired", http.StatusUnauthorized, nil)
}

func NewRevokedSession() error {
	return NewDomainError(CodeRevokedSession, "session revoked", http.StatusUnauthorized, nil)
}

func NewSessionNotFound() error {
	return NewDomainError(CodeSessionNotFound, "session not found", http.StatusUnauthorized, nil)
}

func NewNotAuthorized(message string) error {
	return NewDomainError(CodeNotAuthorized, message, http.StatusForbidden, nil)
}

func NewInvalidTransition(from, to string) error {
	return NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("cannot move order from %s to %s", from, to),
		http.StatusConflict,
		map[string]any{"from": from, "to": to})
}

func NewOrderNotFound(orderID string) error {
	return NewDomainError(CodeOrderNotFound, "order not found", http.StatusNotFound,
		map[string]any{"order_id": orderID})
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewRateLimited() error {
	return NewDomainError(CodeRateLimited, "too many requests", http.StatusTooManyRequests, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
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
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// CodeOf returns the machine-readable code carried by err, or "" for nil.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	return ToDomainError(err).Code
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}
