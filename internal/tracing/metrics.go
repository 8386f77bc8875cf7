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
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is the instrumentation scope for client metrics.
const MeterName = "github.com/tombee/genaws"

// Metrics records client call metrics.
type Metrics struct {
	callsTotal    metric.Int64Counter
	attemptsTotal metric.Int64Counter
	retriesTotal  metric.Int64Counter
	callDuration  metric.Float64Histogram
}

// NewMetrics creates the instruments on meterProvider. A nil provider
// records nothing.
func NewMetrics(meterProvider metric.MeterProvider) (*Metrics, error) {
	if meterProvider == nil {
		meterProvider = noop.NewMeterProvider()
	}
	meter := meterProvider.Meter(MeterName)

	m := &Metrics{}
	var err error

	m.callsTotal, err = meter.Int64Counter(
		"genaws_calls_total",
		metric.WithDescription("Total number of API calls by outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	m.attemptsTotal, err = meter.Int64Counter(
		"genaws_attempts_total",
		metric.WithDescription("Total number of HTTP attempts by status code"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	m.retriesTotal, err = meter.Int64Counter(
		"genaws_retries_total",
		metric.WithDescription("Total number of retried attempts"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	m.callDuration, err = meter.Float64Histogram(
		"genaws_call_duration_seconds",
		metric.WithDescription("API call duration in seconds including retries"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider())
	return m
}

// RecordAttempt counts one HTTP attempt. statusCode is 0 when no response
// arrived.
func (m *Metrics) RecordAttempt(ctx context.Context, service, action string, statusCode int) {
	status := "none"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	m.attemptsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("action", action),
		attribute.String("status_code", status),
	))
}

// RecordRetry counts one retry decision.
func (m *Metrics) RecordRetry(ctx context.Context, service, action, errorType string) {
	m.retriesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("action", action),
		attribute.String("error_type", errorType),
	))
}

// RecordCall counts a finished call and its total duration. outcome is
// "success" or an error type.
func (m *Metrics) RecordCall(ctx context.Context, service, action, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	)
	m.callsTotal.Add(ctx, 1, attrs)
	m.callDuration.Record(ctx, duration.Seconds(), attrs)
}
