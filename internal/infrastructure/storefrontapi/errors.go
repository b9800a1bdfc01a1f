package storefrontapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for storefront API calls
var (
	// ErrTransport covers network failures, timeouts and unreadable responses
	ErrTransport = errors.New("storefrontapi: transport failure")
	// ErrUnauthorized means the server refused the credentials (401/403)
	ErrUnauthorized = errors.New("storefrontapi: unauthorized")
	// ErrRejected is wrapped by every RejectionError
	ErrRejected = errors.New("storefrontapi: request rejected")
	// ErrNotLoggedIn is returned before any request when an authenticated
	// call is made without a token
	ErrNotLoggedIn = errors.New("storefrontapi: not logged in")
	// ErrInvalidRequest means the request failed validation locally and was not sent
	ErrInvalidRequest = errors.New("storefrontapi: invalid request")
)

// RejectionError is a non-2xx answer other than 401/403
type RejectionError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface
func (e *RejectionError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("storefrontapi: HTTP %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("storefrontapi: HTTP %d: %s", e.Status, e.Message)
}

// Unwrap lets errors.Is match ErrRejected
func (e *RejectionError) Unwrap() error {
	return ErrRejected
}

// IsNotFound reports whether the server answered 404
func IsNotFound(err error) bool {
	var rejection *RejectionError
	return errors.As(err, &rejection) && rejection.Status == http.StatusNotFound
}
