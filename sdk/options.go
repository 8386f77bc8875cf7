package sdk

import (
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/genaws/internal/tracing"
	"github.com/tombee/genaws/pkg/catalog"
	"github.com/tombee/genaws/pkg/endpoint"
	"github.com/tombee/genaws/pkg/retry"
	"github.com/tombee/genaws/pkg/xmltree"
)

// Option is a functional option for Client construction.
type Option func(*Client) error

// WithLogger sets the logger for request, retry and signing logs.
// Returns an error if the logger is nil.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
//	client, err := sdk.New(sdk.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithCredentials sets the credentials provider. It is read once per
// attempt, so wrap expensive providers in credentials.NewCache.
//
// Example:
//
//	client, err := sdk.New(
//		sdk.WithCredentials(credentials.NewCache(credentials.NewKeyring("work"))),
//	)
func WithCredentials(provider aws.CredentialsProvider) Option {
	return func(c *Client) error {
		if provider == nil {
			return fmt.Errorf("credentials provider cannot be nil")
		}
		c.credentials = provider
		return nil
	}
}

// WithRegion sets the region used when a call names none.
func WithRegion(region string) Option {
	return func(c *Client) error {
		if !endpoint.ValidRegion(region) {
			return fmt.Errorf("invalid region %q", region)
		}
		c.region = region
		return nil
	}
}

// WithHTTPClient replaces the HTTP client. The client must not retry on
// its own; retries belong to the retry policy.
//
// Example:
//
//	client, err := sdk.New(sdk.WithHTTPClient(&http.Client{Timeout: 5 * time.Second}))
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) error {
		if doer == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		c.httpClient = doer
		return nil
	}
}

// WithRetryPolicy sets the retry policy. Use retry.NoRetry() to disable
// retries.
//
// Example:
//
//	policy := retry.New(5, retry.DefaultCondition, retry.Constant(time.Second))
//	client, err := sdk.New(sdk.WithRetryPolicy(policy))
func WithRetryPolicy(policy retry.Policy) Option {
	return func(c *Client) error {
		if policy == nil {
			return fmt.Errorf("retry policy cannot be nil")
		}
		if policy.MaxRetries() < 0 {
			return fmt.Errorf("retry policy max retries cannot be negative")
		}
		c.retry = policy
		return nil
	}
}

// WithCatalog replaces the service catalog.
func WithCatalog(lookup catalog.Lookup) Option {
	return func(c *Client) error {
		if lookup == nil {
			return fmt.Errorf("catalog cannot be nil")
		}
		c.catalog = lookup
		return nil
	}
}

// WithResolver replaces the endpoint resolver.
//
// Example:
//
//	client, err := sdk.New(sdk.WithResolver(endpoint.StaticResolver{Hostname: "localhost:4566"}))
func WithResolver(resolver endpoint.Resolver) Option {
	return func(c *Client) error {
		if resolver == nil {
			return fmt.Errorf("endpoint resolver cannot be nil")
		}
		c.resolver = resolver
		return nil
	}
}

// WithClock replaces the clock used for signing dates and retry sleeps.
func WithClock(clk Clock) Option {
	return func(c *Client) error {
		if clk == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		c.clock = clk
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) error {
		if userAgent == "" {
			return fmt.Errorf("user agent cannot be empty")
		}
		c.userAgent = userAgent
		return nil
	}
}

// WithListMembers replaces the XML element names that always decode as
// list entries.
func WithListMembers(names ...string) Option {
	return func(c *Client) error {
		c.xml = xmltree.New(xmltree.WithListMembers(names...))
		return nil
	}
}

// WithMeterProvider records call, attempt and retry metrics through mp.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Client) error {
		if mp == nil {
			return fmt.Errorf("meter provider cannot be nil")
		}
		m, err := tracing.NewMetrics(mp)
		if err != nil {
			return fmt.Errorf("create metrics: %w", err)
		}
		c.metrics = m
		return nil
	}
}

// WithTracerProvider emits call and attempt spans through tp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) error {
		if tp == nil {
			return fmt.Errorf("tracer provider cannot be nil")
		}
		c.tracer = tp.Tracer(tracing.TracerName)
		return nil
	}
}
