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

package errors_test

import (
	"errors"
	"fmt"
	"testing"

	genawserrors "github.com/tombee/genaws/pkg/errors"
)

func TestConfigurationError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *genawserrors.ConfigurationError
		wantMsg string
	}{
		{
			name:    "with key",
			err:     &genawserrors.ConfigurationError{Key: "service", Reason: "unknown service nope"},
			wantMsg: "configuration error at service: unknown service nope",
		},
		{
			name:    "without key",
			err:     &genawserrors.ConfigurationError{Reason: "unknown protocol xml-rpc"},
			wantMsg: "configuration error: unknown protocol xml-rpc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("ConfigurationError.Error() = %q, want %q", got, tt.wantMsg)
			}
			if tt.err.IsRetryable() {
				t.Error("ConfigurationError must never be retryable")
			}
		})
	}
}

func TestClientError_Error(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name    string
		err     *genawserrors.ClientError
		wantMsg string
	}{
		{
			name:    "op and cause",
			err:     &genawserrors.ClientError{Op: "send", Cause: cause},
			wantMsg: "client error: send: connection refused",
		},
		{
			name:    "cause only",
			err:     &genawserrors.ClientError{Cause: cause},
			wantMsg: "client error: connection refused",
		},
		{
			name:    "op only",
			err:     &genawserrors.ClientError{Op: "send"},
			wantMsg: "client error: send",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("ClientError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestServiceError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *genawserrors.ServiceError
		wantMsg string
	}{
		{
			name: "full",
			err: &genawserrors.ServiceError{
				Service:    "sqs",
				Code:       "AccessDenied",
				StatusCode: 403,
				Message:    "not allowed",
				RequestID:  "req-1",
			},
			wantMsg: "sqs service error (AccessDenied) [HTTP 403]: not allowed (request-id: req-1)",
		},
		{
			name:    "status only",
			err:     genawserrors.NewStatusError("ec2", 503),
			wantMsg: "ec2 service error [HTTP 503]: 503",
		},
		{
			name:    "bare",
			err:     &genawserrors.ServiceError{Message: "boom"},
			wantMsg: "service error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("ServiceError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestServiceError_IsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  *genawserrors.ServiceError
		want bool
	}{
		{"server error", &genawserrors.ServiceError{StatusCode: 500}, true},
		{"too many requests", &genawserrors.ServiceError{StatusCode: 429}, true},
		{"throttling code", &genawserrors.ServiceError{StatusCode: 400, Code: "Throttling"}, true},
		{"validation", &genawserrors.ServiceError{StatusCode: 400, Code: "ValidationError"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.IsRetryable(); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseError_Unwrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &genawserrors.ParseError{Format: "xml", Cause: cause}

	if err.Error() != "could not parse xml: unexpected EOF" {
		t.Errorf("ParseError.Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("ParseError should unwrap to its cause")
	}

	wrapped := &genawserrors.ServiceError{Message: "unable to parse error message", Cause: err}
	var pe *genawserrors.ParseError
	if !errors.As(wrapped, &pe) {
		t.Error("ServiceError should expose the ParseError it wraps")
	}
}

func TestErrorTypes(t *testing.T) {
	tests := []struct {
		err  genawserrors.ErrorClassifier
		want string
	}{
		{&genawserrors.ConfigurationError{}, "configuration"},
		{&genawserrors.ClientError{}, "client"},
		{&genawserrors.ServiceError{}, "service"},
		{&genawserrors.ParseError{}, "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.err.ErrorType(); got != tt.want {
				t.Errorf("ErrorType() = %q, want %q", got, tt.want)
			}
			if got := genawserrors.Classify(fmt.Errorf("wrapped: %w", tt.err)); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
