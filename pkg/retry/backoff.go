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

package retry

import (
	"math/rand/v2"
	"time"
)

// ExponentialJitter grows the delay by Multiplier per attempt, caps it at
// Max and adds up to Jitter*delay of uniform noise without exceeding Max.
type ExponentialJitter struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64
}

// Calculate returns the delay before retry number attempts+1.
func (e ExponentialJitter) Calculate(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	// Prevent overflow by limiting attempts
	if attempts > 30 {
		attempts = 30
	}

	multiplier := e.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	backoff := time.Duration(float64(e.Initial) * pow(multiplier, attempts))
	if backoff < 0 || backoff > e.Max {
		backoff = e.Max
	}

	jitter := clampJitter(e.Jitter)
	if jitter > 0 {
		jitterAmount := time.Duration(float64(backoff) * jitter * rand.Float64())
		if backoff+jitterAmount > e.Max {
			backoff = e.Max
		} else {
			backoff += jitterAmount
		}
	}
	return backoff
}

// Backoff adapts e to a policy Backoff.
func (e ExponentialJitter) Backoff() Backoff {
	return func(_ error, attempts int) time.Duration {
		return e.Calculate(attempts)
	}
}

// Constant waits d before every retry.
func Constant(d time.Duration) Backoff {
	return func(error, int) time.Duration { return d }
}

func clampJitter(jitter float64) float64 {
	if jitter < 0 {
		return 0
	}
	if jitter > 1 {
		return 1
	}
	return jitter
}

func pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}
