package sdk

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/tombee/genaws/internal/clock"
	"github.com/tombee/genaws/internal/log"
	"github.com/tombee/genaws/internal/tracing"
	"github.com/tombee/genaws/pkg/canon"
	"github.com/tombee/genaws/pkg/catalog"
	"github.com/tombee/genaws/pkg/credentials"
	"github.com/tombee/genaws/pkg/endpoint"
	genawserrors "github.com/tombee/genaws/pkg/errors"
	"github.com/tombee/genaws/pkg/httpclient"
	"github.com/tombee/genaws/pkg/retry"
	"github.com/tombee/genaws/pkg/sigv4"
	"github.com/tombee/genaws/pkg/xmltree"
)

// Clock supplies the signing time and the retry sleep.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// Client executes service actions. A Client is safe for concurrent use;
// its configuration is fixed after New returns.
type Client struct {
	// Service metadata and endpoint resolution
	catalog  catalog.Lookup
	resolver endpoint.Resolver

	// Credentials are read once per attempt
	credentials aws.CredentialsProvider

	httpClient Doer
	retry      retry.Policy
	signer     *sigv4.Signer
	xml        *xmltree.Parser
	clock      Clock
	userAgent  string

	// Region used by Call and NewRequest when none is given
	region string

	logger  *slog.Logger
	metrics *tracing.Metrics
	tracer  trace.Tracer

	// Telemetry owned by the client, shut down by Close
	telemetry *tracing.Provider

	closeMu sync.Mutex
	closed  bool
}

// New creates a Client with the given options.
// Returns an error if any option fails to apply.
//
// Example:
//
//	client, err := sdk.New(
//		sdk.WithCredentials(credentials.Static(ak, sk, "")),
//		sdk.WithRegion("eu-west-1"),
//		sdk.WithLogger(slog.Default()),
//	)
//	if err != nil {
//		return err
//	}
//	defer client.Close(ctx)
func New(opts ...Option) (*Client, error) {
	c := &Client{
		catalog:   catalog.Default(),
		resolver:  endpoint.DefaultResolver{},
		retry:     retry.Default(),
		xml:       xmltree.New(),
		clock:     clock.Real(),
		userAgent: DefaultUserAgent,
		logger:    slog.Default(),
		metrics:   tracing.NopMetrics(),
		tracer:    noop.NewTracerProvider().Tracer(tracing.TracerName),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	if c.httpClient == nil {
		cfg := httpclient.DefaultConfig()
		cfg.UserAgent = c.userAgent
		cfg.Logger = log.WithComponent(c.logger, "httpclient")
		hc, err := httpclient.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("create http client: %w", err)
		}
		c.httpClient = hc
	}
	if c.signer == nil {
		c.signer = sigv4.NewSigner(sigv4.WithLogger(log.WithComponent(c.logger, "signer")))
	}

	return c, nil
}

// Region returns the client's default region.
func (c *Client) Region() string {
	return c.region
}

// MetricsHandler serves the client's metrics in Prometheus text format.
// It returns nil unless the client was created by NewFromConfig.
func (c *Client) MetricsHandler() http.Handler {
	if c.telemetry == nil {
		return nil
	}
	return c.telemetry.MetricsHandler()
}

// Close flushes and releases telemetry owned by the client.
//
// Close is safe to call multiple times.
func (c *Client) Close(ctx context.Context) error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.telemetry != nil {
		if err := c.telemetry.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown telemetry: %w", err)
		}
	}
	return nil
}

// NewRequest looks up serviceName in the catalog and builds the request
// for in. An empty region uses the client's default region.
func (c *Client) NewRequest(_ context.Context, region, serviceName string, in ActionInput) (*Request, error) {
	if region == "" {
		region = c.region
	}
	if region == "" {
		return nil, &genawserrors.ConfigurationError{Key: "region", Reason: "region is required"}
	}

	meta, err := c.catalog.Service(serviceName)
	if err != nil {
		return nil, err
	}

	req, err := NewBuilder(c.resolver).Build(meta, region, in)
	if err != nil {
		return nil, err
	}
	req.ServiceName = serviceName
	return req, nil
}

// Sign stamps and signs req without sending it. The returned request can
// be sent by any HTTP client before its X-Amz-Date expires.
func (c *Client) Sign(ctx context.Context, req *Request) (*http.Request, error) {
	httpReq, err := req.httpRequest(ctx)
	if err != nil {
		return nil, &genawserrors.ClientError{Op: "build request", Cause: err}
	}
	if err := c.sign(ctx, req, httpReq); err != nil {
		return nil, err
	}
	return httpReq, nil
}

func (c *Client) sign(ctx context.Context, req *Request, httpReq *http.Request) error {
	sigv4.Stamp(httpReq, c.clock.Now())

	creds, err := credentials.Snapshot(ctx, c.credentials)
	if err != nil {
		return err
	}

	if err := c.signer.SignHTTP(ctx, creds, httpReq, sigv4.PayloadHash(req.Body), req.Service.SigningService(), req.SigningRegion); err != nil {
		return &genawserrors.ConfigurationError{Key: "signing", Reason: err.Error(), Cause: err}
	}

	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	return nil
}

// Call builds and executes one action. When in.Select is set the decoded
// result is projected through that jq expression; several outputs are
// returned as an array.
//
// Example:
//
//	out, err := client.Call(ctx, "us-east-1", "ec2", sdk.ActionInput{
//		Action: "DescribeRegions",
//		Select: "[.regionInfo[].regionName]",
//	})
func (c *Client) Call(ctx context.Context, region, serviceName string, in ActionInput) (*canon.Node, error) {
	req, err := c.NewRequest(ctx, region, serviceName, in)
	if err != nil {
		return nil, err
	}

	result, err := c.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if in.Select == "" {
		return result, nil
	}

	selected, err := canon.QueryOne(ctx, result, in.Select)
	if err != nil {
		return nil, &genawserrors.ConfigurationError{Key: "select", Reason: err.Error(), Cause: err}
	}
	if selected == nil {
		return canon.Null(), nil
	}
	return selected, nil
}
