// Package apperrors defines the error taxonomy shared by the broker server
// and the upload client. Every failure surfaced by the upload/download chain
// carries exactly one of the sentinel kinds below, matchable with errors.Is.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds.
var (
	ErrValidation      = errors.New("validation rejected")
	ErrCredential      = errors.New("credential request failed")
	ErrTransfer        = errors.New("transfer failed")
	ErrUpstream        = errors.New("upstream storage failure")
	ErrInvalidArgument = errors.New("invalid argument")
)

// AppError is an error with a kind and an HTTP status for handlers to map to.
type AppError struct {
	Kind       error
	Message    string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the kind sentinel and the underlying cause to errors.Is.
func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Validation rejects a declared type/size before any network call is made.
func Validation(message string) *AppError {
	return &AppError{Kind: ErrValidation, Message: message, StatusCode: http.StatusBadRequest}
}

// Credential wraps a failure while requesting a write credential.
func Credential(message string, err error) *AppError {
	return &AppError{Kind: ErrCredential, Message: message, StatusCode: http.StatusBadGateway, Err: err}
}

// Transfer wraps a non-204 response or transport failure during the binary transfer.
func Transfer(message string, err error) *AppError {
	return &AppError{Kind: ErrTransfer, Message: message, StatusCode: http.StatusBadGateway, Err: err}
}

// Upstream wraps a storage-backend sign or fetch failure.
func Upstream(message string, err error) *AppError {
	return &AppError{Kind: ErrUpstream, Message: message, StatusCode: http.StatusInternalServerError, Err: err}
}

// InvalidArgument flags an empty or missing required identifier.
func InvalidArgument(message string) *AppError {
	return &AppError{Kind: ErrInvalidArgument, Message: message, StatusCode: http.StatusBadRequest}
}

// StatusOf returns the HTTP status an error maps to, defaulting to 500.
func StatusOf(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return http.StatusInternalServerError
}
