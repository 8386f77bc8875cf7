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
	"strings"
	"testing"

	genawserrors "github.com/tombee/genaws/pkg/errors"
)

func TestWrap(t *testing.T) {
	t.Run("wraps error with context", func(t *testing.T) {
		original := errors.New("original error")
		wrapped := genawserrors.Wrap(original, "resolving endpoint")

		if !strings.Contains(wrapped.Error(), "resolving endpoint") {
			t.Errorf("wrapped error should contain context, got: %s", wrapped)
		}
		if !errors.Is(wrapped, original) {
			t.Error("wrapped error should match original with errors.Is")
		}
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		if wrapped := genawserrors.Wrap(nil, "context"); wrapped != nil {
			t.Errorf("Wrap(nil, _) should return nil, got: %v", wrapped)
		}
	})
}

func TestWrapf(t *testing.T) {
	t.Run("formats context", func(t *testing.T) {
		wrapped := genawserrors.Wrapf(errors.New("boom"), "loading %s", "sqs")
		if wrapped.Error() != "loading sqs: boom" {
			t.Errorf("Wrapf() = %q", wrapped)
		}
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		if wrapped := genawserrors.Wrapf(nil, "loading %s", "sqs"); wrapped != nil {
			t.Errorf("Wrapf(nil, _, _) should return nil, got: %v", wrapped)
		}
	})
}

func TestAs(t *testing.T) {
	original := &genawserrors.ServiceError{Code: "Throttling", StatusCode: 400}
	wrapped := genawserrors.Wrap(original, "executing")

	var target *genawserrors.ServiceError
	if !genawserrors.As(wrapped, &target) {
		t.Fatal("As should extract ServiceError from chain")
	}
	if target.Code != "Throttling" {
		t.Errorf("extracted Code = %q, want %q", target.Code, "Throttling")
	}

	var cfgErr *genawserrors.ConfigurationError
	if genawserrors.As(wrapped, &cfgErr) {
		t.Error("As should return false when error type doesn't match")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("plain"), false},
		{"client", genawserrors.Wrap(&genawserrors.ClientError{Op: "send"}, "attempt"), true},
		{"configuration", &genawserrors.ConfigurationError{Reason: "bad"}, false},
		{"server", genawserrors.NewStatusError("sqs", 502), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := genawserrors.IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify_Unknown(t *testing.T) {
	if got := genawserrors.Classify(errors.New("x")); got != "unknown" {
		t.Errorf("Classify() = %q, want unknown", got)
	}
}
