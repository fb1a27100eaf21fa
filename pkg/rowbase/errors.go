// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package rowbase

import (
	"errors"
	"fmt"
)

// AuthError reports that the Rowbase authentication endpoint rejected the
// supplied identity material (HTTP 401) or the authentication request itself
// (HTTP 400). It is only produced by the authentication call; a 401 on a
// domain call surfaces as a ClientError because the client never re-auths
// reactively.
type AuthError struct {
	// Status is the HTTP status code returned by the auth endpoint.
	Status int
	// Message is the service-provided detail, when available.
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rowbase: authentication failed (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("rowbase: authentication failed (%d)", e.Status)
}

// ClientError reports every other failure: non-2xx domain responses,
// structurally invalid success responses, and precondition violations such
// as dispatching without an active table.
type ClientError struct {
	// Status is the HTTP status code, or 0 for non-HTTP failures.
	Status int
	// Message describes the failure, including the status text for HTTP
	// failures.
	Message string
}

func (e *ClientError) Error() string {
	return "rowbase: " + e.Message
}

// IsAuthError reports whether any error in the chain is an AuthError.
func IsAuthError(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// IsClientError reports whether any error in the chain is a ClientError.
func IsClientError(err error) bool {
	var target *ClientError
	return errors.As(err, &target)
}

func clientErrorf(status int, format string, args ...any) *ClientError {
	return &ClientError{Status: status, Message: fmt.Sprintf(format, args...)}
}
