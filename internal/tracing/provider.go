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

package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Provider wires an OpenTelemetry tracer provider, a meter provider backed
// by a private Prometheus registry, and the client Metrics.
type Provider struct {
	tp       *sdktrace.TracerProvider
	mp       *sdkmetric.MeterProvider
	registry *prometheus.Registry
	metrics  *Metrics
	enabled  bool
}

// ProviderOption configures a Provider.
type ProviderOption func(*providerOptions)

type providerOptions struct {
	console    io.Writer
	processors []sdktrace.SpanProcessor
}

// WithConsoleWriter sets where the console exporter writes.
func WithConsoleWriter(w io.Writer) ProviderOption {
	return func(o *providerOptions) { o.console = w }
}

// WithSpanProcessor registers an extra span processor, such as an
// in-memory exporter in tests.
func WithSpanProcessor(sp sdktrace.SpanProcessor) ProviderOption {
	return func(o *providerOptions) {
		o.processors = append(o.processors, sp)
	}
}

// NewProvider creates a Provider from cfg.
func NewProvider(ctx context.Context, cfg Config, opts ...ProviderOption) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o providerOptions
	for _, opt := range opts {
		opt(&o)
	}

	// No schema URL to avoid conflicts when merging with the default resource.
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			"",
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(NewSampler(cfg.SampleRate, cfg.AlwaysSampleErrors)),
	}
	var processors []sdktrace.SpanProcessor
	if cfg.Enabled {
		exporter, err := NewExporter(ctx, cfg.Exporter, o.console)
		if err != nil {
			return nil, err
		}
		if exporter != nil {
			var batchOpts []sdktrace.BatchSpanProcessorOption
			if cfg.BatchInterval > 0 {
				batchOpts = append(batchOpts, sdktrace.WithBatchTimeout(cfg.BatchInterval))
			}
			processors = append(processors, sdktrace.NewBatchSpanProcessor(exporter, batchOpts...))
		}
	}
	processors = append(processors, o.processors...)
	for _, sp := range processors {
		if cfg.AlwaysSampleErrors && cfg.SampleRate < 1.0 {
			sp = NewErrorSpanProcessor(sp)
		}
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(sp))
	}
	tp := sdktrace.NewTracerProvider(tpOpts...)

	registry := prometheus.NewRegistry()
	promExporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(promExporter),
	)

	metrics, err := NewMetrics(mp)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	return &Provider{
		tp:       tp,
		mp:       mp,
		registry: registry,
		metrics:  metrics,
		enabled:  cfg.Enabled || len(o.processors) > 0,
	}, nil
}

// TracerProvider returns the tracer provider. When tracing is disabled
// and no span processor was registered a no-op provider is returned.
func (p *Provider) TracerProvider() trace.TracerProvider {
	if !p.enabled {
		return noop.NewTracerProvider()
	}
	return p.tp
}

// MeterProvider returns the meter provider.
func (p *Provider) MeterProvider() metric.MeterProvider { return p.mp }

// Metrics returns the client metrics recorded on MeterProvider.
func (p *Provider) Metrics() *Metrics { return p.metrics }

// Registry returns the Prometheus registry metrics are exported to.
func (p *Provider) Registry() *prometheus.Registry { return p.registry }

// MetricsHandler returns an HTTP handler serving the registry in
// Prometheus exposition format.
func (p *Provider) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// ForceFlush exports all pending spans synchronously.
func (p *Provider) ForceFlush(ctx context.Context) error {
	return errors.Join(p.tp.ForceFlush(ctx), p.mp.ForceFlush(ctx))
}

// Shutdown flushes any pending spans and releases resources.
func (p *Provider) Shutdown(ctx context.Context) error {
	return errors.Join(p.tp.Shutdown(ctx), p.mp.Shutdown(ctx))
}
