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

// Package tracing provides OpenTelemetry spans and metrics for API calls.
//
// A Provider owns an SDK tracer provider and a meter provider whose
// readings are exposed in Prometheus text format through MetricsHandler.
// Metrics records per-call and per-attempt counters against any
// metric.MeterProvider, so callers that bring their own OpenTelemetry
// setup can skip Provider entirely.
//
// # Spans
//
// Each call gets a client span named "<service>.<action>" with one child
// span per attempt:
//
//	ctx, span := tracing.StartCall(ctx, tracer, "sqs", "ListQueues", "us-east-1")
//	defer span.End()
//	...
//	tracing.EndWithError(span, err)
//
// # Exporters
//
// Spans are exported by the exporter named in Config.Exporter.Type:
// "console" (stdout), "otlp" (gRPC), "otlp-http", or "none".
package tracing
