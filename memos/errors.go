// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

package memos

import (
	"errors"
	"fmt"
)

// APIError represents a non-2xx response from the Memos server. Callers
// can use errors.As to extract the structured information:
//
//	var apiErr *memos.APIError
//	if errors.As(err, &apiErr) {
//	    if apiErr.StatusCode == http.StatusNotFound { ... }
//	}
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Body is the raw response body text. Never partially decoded.
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Request failed: %d - %s", e.StatusCode, e.Body)
}

// IsStatus checks whether err is an *APIError with the given HTTP status.
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == statusCode
	}
	return false
}

// ValidationError is a caller contract violation detected before any
// network call, such as a mutation on a note with no name.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// validation constructs a *ValidationError with a formatted message.
func validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
