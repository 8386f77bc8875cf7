package sdk

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/tombee/genaws/pkg/config"
	"github.com/tombee/genaws/pkg/credentials"
	genawserrors "github.com/tombee/genaws/pkg/errors"
)

func TestNew_Defaults(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	assert.NotNil(t, c.catalog)
	assert.NotNil(t, c.resolver)
	assert.NotNil(t, c.httpClient)
	assert.NotNil(t, c.signer)
	assert.NotNil(t, c.metrics)
	assert.Equal(t, DefaultUserAgent, c.userAgent)
	assert.Empty(t, c.Region())
	assert.Nil(t, c.MetricsHandler())
	assert.NoError(t, c.Close(context.Background()))
}

func TestNew_OptionErrors(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		want string
	}{
		{name: "nil logger", opt: WithLogger(nil), want: "logger cannot be nil"},
		{name: "nil credentials", opt: WithCredentials(nil), want: "credentials provider cannot be nil"},
		{name: "nil http client", opt: WithHTTPClient(nil), want: "http client cannot be nil"},
		{name: "nil retry policy", opt: WithRetryPolicy(nil), want: "retry policy cannot be nil"},
		{name: "nil catalog", opt: WithCatalog(nil), want: "catalog cannot be nil"},
		{name: "nil resolver", opt: WithResolver(nil), want: "endpoint resolver cannot be nil"},
		{name: "nil clock", opt: WithClock(nil), want: "clock cannot be nil"},
		{name: "empty user agent", opt: WithUserAgent(""), want: "user agent cannot be empty"},
		{name: "invalid region", opt: WithRegion("Mars"), want: `invalid region "Mars"`},
		{name: "nil meter provider", opt: WithMeterProvider(nil), want: "meter provider cannot be nil"},
		{name: "nil tracer provider", opt: WithTracerProvider(nil), want: "tracer provider cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "apply option")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWithUserAgent(t *testing.T) {
	var ua string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		_, _ = io.WriteString(w, `{}`)
	}), WithUserAgent("my-tool/2.0"))

	_, err := client.Call(context.Background(), "", "kinesis", ActionInput{Action: "ListStreams"})
	require.NoError(t, err)
	assert.Equal(t, "my-tool/2.0", ua)
}

func TestNew_SignerLogsWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client, _ := newTestClient(t, http.NotFoundHandler(), WithLogger(logger))

	req, err := client.NewRequest(context.Background(), "", "kinesis", ActionInput{Action: "ListStreams"})
	require.NoError(t, err)
	_, err = client.Sign(context.Background(), req)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="signed request"`)
	assert.Contains(t, out, "component=signer")
	assert.Contains(t, out, "access_key=AKID[REDACTED]")
	assert.NotContains(t, out, "AKIDEXAMPLE")
}

func TestWithListMembers(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeXML(w, http.StatusOK, `<R><Names><entry>a</entry></Names></R>`)
	}), WithListMembers("entry"))

	out, err := client.Call(context.Background(), "", "cloudwatch", ActionInput{Action: "List"})
	require.NoError(t, err)
	require.True(t, out.Get("Names").IsArray())
	assert.Equal(t, "a", out.Get("Names").Index(0).Text())
}

// kinesisServer answers every request with an empty ListStreams result.
func kinesisServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"StreamNames":[]}`)
	}))
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return srv, u.Host
}

func TestNewFromConfig_Static(t *testing.T) {
	srv, host := kinesisServer(t)

	cfg := config.Default()
	cfg.Region = "eu-west-1"
	cfg.Endpoint = host
	cfg.Log.Level = "error"
	cfg.Credentials = config.CredentialsConfig{
		Source:          config.SourceStatic,
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	}

	ctx := context.Background()
	client, err := NewFromConfig(ctx, cfg, WithCatalog(services), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	defer client.Close(ctx)

	assert.Equal(t, "eu-west-1", client.Region())

	out, err := client.Call(ctx, "", "kinesis", ActionInput{Action: "ListStreams"})
	require.NoError(t, err)
	assert.True(t, out.Get("StreamNames").IsArray())

	handler := client.MetricsHandler()
	require.NotNil(t, handler)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "genaws_calls_total")
	assert.Contains(t, rec.Body.String(), `service="kinesis"`)

	require.NoError(t, client.Close(ctx))
	require.NoError(t, client.Close(ctx))
}

func TestNewFromConfig_Keyring(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, credentials.Store("ci", aws.Credentials{
		AccessKeyID:     "AKIDKEYRING",
		SecretAccessKey: "secret",
	}))

	var auth string
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Region = "us-east-1"
	cfg.Profile = "ci"
	cfg.Endpoint = u.Host
	cfg.Credentials.Source = config.SourceKeyring

	ctx := context.Background()
	client, err := NewFromConfig(ctx, cfg, WithCatalog(services), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	defer client.Close(ctx)

	_, err = client.Call(ctx, "", "kinesis", ActionInput{Action: "ListStreams"})
	require.NoError(t, err)
	assert.Contains(t, auth, "Credential=AKIDKEYRING/")
}

func TestNewFromConfig_DefaultChainFromEnv(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDFROMENV")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_REGION", "ap-southeast-2")
	t.Setenv("AWS_CONFIG_FILE", t.TempDir()+"/config")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", t.TempDir()+"/credentials")

	srv, host := kinesisServer(t)

	cfg := config.Default()
	cfg.Endpoint = host

	ctx := context.Background()
	client, err := NewFromConfig(ctx, cfg, WithCatalog(services), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	defer client.Close(ctx)

	assert.Equal(t, "ap-southeast-2", client.Region())

	req, err := client.NewRequest(ctx, "", "kinesis", ActionInput{Action: "ListStreams"})
	require.NoError(t, err)
	signed, err := client.Sign(ctx, req)
	require.NoError(t, err)
	assert.Contains(t, signed.Header.Get("Authorization"), "Credential=AKIDFROMENV/")
	assert.Contains(t, signed.Header.Get("Authorization"), "/ap-southeast-2/kinesis/aws4_request")
}

func TestNewFromConfig_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxRetries = -1

	_, err := NewFromConfig(context.Background(), cfg)
	var cfgErr *genawserrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
