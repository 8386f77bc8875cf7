// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"fmt"
	"strconv"
)

// Error type identifiers returned by ErrorType.
const (
	TypeConfiguration = "configuration"
	TypeClient        = "client"
	TypeService       = "service"
	TypeParse         = "parse"
)

// ConfigurationError represents a problem that no retry can fix: an unknown
// service name, an unsupported protocol, a corrupt catalog or invalid
// client settings.
type ConfigurationError struct {
	// Key is the setting or lookup key that has the problem (e.g., "region", "service").
	Key string

	// Reason explains what's wrong
	Reason string

	// Cause is the underlying error (e.g., file read error, decode error)
	Cause error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("configuration error at %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// ErrorType implements ErrorClassifier.
func (e *ConfigurationError) ErrorType() string { return TypeConfiguration }

// IsRetryable implements ErrorClassifier.
func (e *ConfigurationError) IsRetryable() bool { return false }

// ClientError represents a failure on the caller's side of the wire:
// the request never produced a response, or the response body could not
// be read.
type ClientError struct {
	// Op describes what was being done (e.g., "send", "read body")
	Op string

	// Cause is the underlying transport error
	Cause error
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("client error: %s", e.Op)
	}
	if e.Op == "" {
		return fmt.Sprintf("client error: %v", e.Cause)
	}
	return fmt.Sprintf("client error: %s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType implements ErrorClassifier.
func (e *ClientError) ErrorType() string { return TypeClient }

// IsRetryable implements ErrorClassifier.
func (e *ClientError) IsRetryable() bool { return true }

// ServiceError is the remote service's own structured complaint.
type ServiceError struct {
	// Message is the service supplied message, or the status code for 5xx
	Message string

	// Code is the service error code (e.g., "Throttling", "ValidationException")
	Code string

	// RequestID correlates this error with service side logs
	RequestID string

	// StatusCode is the HTTP status code
	StatusCode int

	// Service is the catalog name of the service that failed
	Service string

	// Cause is set when the error body itself could not be decoded
	Cause error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	msg := "service error"
	if e.Service != "" {
		msg = fmt.Sprintf("%s service error", e.Service)
	}

	if e.Code != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Code)
	}

	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s [HTTP %d]", msg, e.StatusCode)
	}

	msg = fmt.Sprintf("%s: %s", msg, e.Message)

	if e.RequestID != "" {
		msg = fmt.Sprintf("%s (request-id: %s)", msg, e.RequestID)
	}

	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// ErrorType implements ErrorClassifier.
func (e *ServiceError) ErrorType() string { return TypeService }

// IsRetryable reports whether the failure is server side or throttling.
func (e *ServiceError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429 || IsThrottlingCode(e.Code)
}

// NewStatusError builds the ServiceError used when no structured body is
// expected, carrying only the status code as its message.
func NewStatusError(service string, statusCode int) *ServiceError {
	return &ServiceError{
		Message:    strconv.Itoa(statusCode),
		StatusCode: statusCode,
		Service:    service,
	}
}

// ParseError represents a malformed XML or JSON document.
type ParseError struct {
	// Format is the document format ("xml" or "json")
	Format string

	// Cause is the decoder error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse %s: %v", e.Format, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ErrorType implements ErrorClassifier.
func (e *ParseError) ErrorType() string { return TypeParse }

// IsRetryable implements ErrorClassifier.
func (e *ParseError) IsRetryable() bool { return false }

var throttlingCodes = map[string]bool{
	"Throttling":                             true,
	"ThrottlingException":                    true,
	"ThrottledException":                     true,
	"RequestThrottledException":              true,
	"TooManyRequestsException":               true,
	"ProvisionedThroughputExceededException": true,
	"TransactionInProgressException":         true,
	"RequestLimitExceeded":                   true,
	"BandwidthLimitExceeded":                 true,
	"LimitExceededException":                 true,
	"RequestThrottled":                       true,
	"SlowDown":                               true,
	"PriorRequestNotComplete":                true,
	"EC2ThrottledException":                  true,
}

// IsThrottlingCode reports whether code is one of the service error codes
// that signal the caller is being throttled.
func IsThrottlingCode(code string) bool {
	return throttlingCodes[code]
}
