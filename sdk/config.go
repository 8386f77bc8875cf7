package sdk

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/tombee/genaws/internal/log"
	"github.com/tombee/genaws/internal/tracing"
	"github.com/tombee/genaws/pkg/config"
	"github.com/tombee/genaws/pkg/credentials"
	"github.com/tombee/genaws/pkg/endpoint"
	genawserrors "github.com/tombee/genaws/pkg/errors"
	"github.com/tombee/genaws/pkg/httpclient"
	"github.com/tombee/genaws/pkg/retry"
)

// NewFromConfig creates a Client wired from cfg: logger, credentials
// source, retry policy, HTTP client, endpoint override and telemetry.
// Options are applied afterwards and take precedence.
//
// Example:
//
//	cfg, err := config.Load("genaws.yaml")
//	if err != nil {
//		return err
//	}
//	client, err := sdk.NewFromConfig(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close(ctx)
func NewFromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &genawserrors.ConfigurationError{Key: "validation", Reason: err.Error(), Cause: err}
	}

	logger := log.New(cfg.LoggerConfig())

	provider, region, err := credentialsFromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	hc := cfg.HTTPConfig(userAgent)
	hc.Logger = log.WithComponent(logger, "httpclient")
	httpClient, err := httpclient.New(hc)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	telemetry, err := tracing.NewProvider(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("create telemetry: %w", err)
	}

	base := []Option{
		WithLogger(logger),
		WithCredentials(credentials.NewCache(provider)),
		WithHTTPClient(httpClient),
		WithRetryPolicy(retry.FromConfig(cfg.RetryConfig())),
		WithUserAgent(userAgent),
		WithTracerProvider(telemetry.TracerProvider()),
		withMetrics(telemetry.Metrics()),
	}
	if region != "" {
		base = append(base, WithRegion(region))
	}
	if cfg.Endpoint != "" {
		base = append(base, WithResolver(endpoint.StaticResolver{Hostname: cfg.Endpoint}))
	}

	c, err := New(append(base, opts...)...)
	if err != nil {
		_ = telemetry.Shutdown(ctx)
		return nil, err
	}
	c.telemetry = telemetry
	return c, nil
}

// credentialsFromConfig returns the provider for cfg.Credentials.Source and
// the effective region. The default source also resolves the region from
// the shared config when cfg leaves it empty.
func credentialsFromConfig(ctx context.Context, cfg *config.Config) (aws.CredentialsProvider, string, error) {
	switch cfg.Credentials.Source {
	case config.SourceStatic:
		return credentials.Static(cfg.Credentials.AccessKeyID, cfg.Credentials.SecretAccessKey, cfg.Credentials.SessionToken), cfg.Region, nil
	case config.SourceKeyring:
		return credentials.NewKeyring(cfg.Profile), cfg.Region, nil
	default:
		awsCfg, err := credentials.LoadDefault(ctx, cfg.Region, cfg.Profile)
		if err != nil {
			return nil, "", err
		}
		if awsCfg.Credentials == nil {
			return nil, "", &genawserrors.ConfigurationError{Key: "credentials", Reason: "no credentials found in the default chain"}
		}
		region := cfg.Region
		if region == "" {
			region = awsCfg.Region
		}
		return awsCfg.Credentials, region, nil
	}
}

func withMetrics(m *tracing.Metrics) Option {
	return func(c *Client) error {
		if m == nil {
			return fmt.Errorf("metrics cannot be nil")
		}
		c.metrics = m
		return nil
	}
}
