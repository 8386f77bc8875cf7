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

package credentials

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/tombee/genaws/internal/clock"
)

const (
	// DefaultExpiryWindow refreshes credentials this long before they expire.
	DefaultExpiryWindow = 5 * time.Minute

	// DefaultMaxAge bounds how long non-expiring credentials are reused
	// before the underlying provider is asked again.
	DefaultMaxAge = time.Hour
)

// Cache memoizes a provider. Retrieve returns a copy of the cached value
// taken under the lock, so callers never observe a partially refreshed set
// of keys.
type Cache struct {
	provider     aws.CredentialsProvider
	clock        clock.Clock
	expiryWindow time.Duration
	maxAge       time.Duration

	mu      sync.Mutex
	current aws.Credentials
	expires time.Time
	valid   bool
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock sets the time source used for expiry checks.
func WithClock(c clock.Clock) CacheOption {
	return func(cache *Cache) { cache.clock = c }
}

// WithExpiryWindow sets how early before expiry a refresh happens.
func WithExpiryWindow(d time.Duration) CacheOption {
	return func(cache *Cache) { cache.expiryWindow = d }
}

// WithMaxAge bounds the reuse of credentials that carry no expiry.
func WithMaxAge(d time.Duration) CacheOption {
	return func(cache *Cache) { cache.maxAge = d }
}

// NewCache wraps provider.
func NewCache(provider aws.CredentialsProvider, opts ...CacheOption) *Cache {
	c := &Cache{
		provider:     provider,
		clock:        clock.Real(),
		expiryWindow: DefaultExpiryWindow,
		maxAge:       DefaultMaxAge,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Retrieve implements aws.CredentialsProvider.
func (c *Cache) Retrieve(ctx context.Context) (aws.Credentials, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.valid && now.Before(c.expires) {
		return c.current, nil
	}

	creds, err := c.provider.Retrieve(ctx)
	if err != nil {
		return aws.Credentials{}, err
	}

	expires := now.Add(c.maxAge)
	if creds.CanExpire && !creds.Expires.IsZero() {
		if e := creds.Expires.Add(-c.expiryWindow); e.Before(expires) {
			expires = e
		}
	}

	c.current = creds
	c.expires = expires
	c.valid = true
	return creds, nil
}

// Invalidate forces the next Retrieve to ask the provider again.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}
