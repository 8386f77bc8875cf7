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

// Package retry defines the policy the execution engine consults after a
// failed attempt: whether to try again, and how long to wait first.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	genawserrors "github.com/tombee/genaws/pkg/errors"
)

// Policy decides retries. attempts is the number of retries already made,
// so it is 0 after the first failure.
type Policy interface {
	// MaxRetries is the upper bound on retries after the first attempt.
	MaxRetries() int

	// ShouldRetry reports whether err is worth another attempt.
	ShouldRetry(err error, attempts int) bool

	// Delay is how long to wait before the next attempt.
	Delay(err error, attempts int) time.Duration
}

// Condition is the retry predicate of a policy.
type Condition func(err error, attempts int) bool

// Backoff computes the wait before the next attempt.
type Backoff func(err error, attempts int) time.Duration

type policy struct {
	maxRetries int
	condition  Condition
	backoff    Backoff
}

// New builds a Policy from its parts. A nil condition retries nothing and
// a nil backoff does not wait.
func New(maxRetries int, condition Condition, backoff Backoff) Policy {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &policy{maxRetries: maxRetries, condition: condition, backoff: backoff}
}

func (p *policy) MaxRetries() int { return p.maxRetries }

func (p *policy) ShouldRetry(err error, attempts int) bool {
	if p.condition == nil {
		return false
	}
	return p.condition(err, attempts)
}

func (p *policy) Delay(err error, attempts int) time.Duration {
	if p.backoff == nil {
		return 0
	}
	return p.backoff(err, attempts)
}

// NoRetry never retries.
func NoRetry() Policy {
	return New(0, nil, nil)
}

// Config holds the tunables of the default policy.
type Config struct {
	// MaxRetries is the maximum number of retries (default: 3)
	MaxRetries int

	// BaseDelay is the first backoff for ordinary failures (default: 100ms)
	BaseDelay time.Duration

	// ThrottledBaseDelay is the first backoff after throttling (default: 500ms)
	ThrottledBaseDelay time.Duration

	// MaxBackoff caps every delay (default: 20s)
	MaxBackoff time.Duration

	// Jitter is the fraction of each delay that is randomized, 0 to 1 (default: 1.0)
	Jitter float64
}

// DefaultConfig returns the default retry configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:         3,
		BaseDelay:          100 * time.Millisecond,
		ThrottledBaseDelay: 500 * time.Millisecond,
		MaxBackoff:         20 * time.Second,
		Jitter:             1.0,
	}
}

// Validate checks if the retry configuration is valid.
func (c *Config) Validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative, got %d", c.MaxRetries)
	}
	if c.BaseDelay < 0 {
		return fmt.Errorf("base_delay must be non-negative, got %v", c.BaseDelay)
	}
	if c.ThrottledBaseDelay < 0 {
		return fmt.Errorf("throttled_base_delay must be non-negative, got %v", c.ThrottledBaseDelay)
	}
	if c.MaxBackoff < c.BaseDelay || c.MaxBackoff < c.ThrottledBaseDelay {
		return fmt.Errorf("max_backoff (%v) must be >= base delays", c.MaxBackoff)
	}
	if c.Jitter < 0 || c.Jitter > 1 {
		return fmt.Errorf("jitter must be between 0 and 1, got %v", c.Jitter)
	}
	return nil
}

// Default returns the policy built from DefaultConfig.
func Default() Policy {
	return FromConfig(DefaultConfig())
}

// FromConfig returns a policy that retries DefaultCondition failures with
// exponential jitter, starting from the throttled base delay when the
// service signalled throttling.
func FromConfig(cfg *Config) Policy {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	plain := ExponentialJitter{Initial: cfg.BaseDelay, Max: cfg.MaxBackoff, Multiplier: 2, Jitter: cfg.Jitter}
	throttled := ExponentialJitter{Initial: cfg.ThrottledBaseDelay, Max: cfg.MaxBackoff, Multiplier: 2, Jitter: cfg.Jitter}

	return New(cfg.MaxRetries, DefaultCondition, func(err error, attempts int) time.Duration {
		if IsThrottle(err) {
			return throttled.Calculate(attempts)
		}
		return plain.Calculate(attempts)
	})
}

// DefaultCondition retries transport failures other than cancellation, and
// service errors that are server side or throttling.
func DefaultCondition(err error, _ int) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var clientErr *genawserrors.ClientError
	if errors.As(err, &clientErr) {
		return true
	}
	var svcErr *genawserrors.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.IsRetryable()
	}
	return false
}

// ClientErrorsOnly retries transport failures and nothing else.
func ClientErrorsOnly(err error, _ int) bool {
	var clientErr *genawserrors.ClientError
	return errors.As(err, &clientErr)
}

// IsThrottle reports whether err is a throttling response from the service.
func IsThrottle(err error) bool {
	var svcErr *genawserrors.ServiceError
	if !errors.As(err, &svcErr) {
		return false
	}
	return svcErr.StatusCode == 429 || genawserrors.IsThrottlingCode(svcErr.Code)
}
