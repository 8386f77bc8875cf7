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

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// NewSampler creates a parent-based sampler for rate. With
// alwaysSampleErrors set and rate below 1, spans the rate would drop are
// still recorded so an ErrorSpanProcessor can keep the ones that end in
// error.
func NewSampler(rate float64, alwaysSampleErrors bool) sdktrace.Sampler {
	var base sdktrace.Sampler
	switch {
	case rate >= 1.0:
		base = sdktrace.AlwaysSample()
	case rate <= 0.0:
		base = sdktrace.NeverSample()
	default:
		base = sdktrace.TraceIDRatioBased(rate)
	}

	if alwaysSampleErrors && rate < 1.0 {
		return sdktrace.ParentBased(
			&errorAwareSampler{baseSampler: base},
			sdktrace.WithLocalParentNotSampled(&errorAwareSampler{baseSampler: sdktrace.NeverSample()}),
		)
	}
	return sdktrace.ParentBased(base)
}

// errorAwareSampler downgrades Drop decisions to RecordOnly. The keep or
// drop decision is made when the span ends.
type errorAwareSampler struct {
	baseSampler sdktrace.Sampler
}

// ShouldSample implements the Sampler interface.
func (s *errorAwareSampler) ShouldSample(params sdktrace.SamplingParameters) sdktrace.SamplingResult {
	result := s.baseSampler.ShouldSample(params)
	if result.Decision == sdktrace.Drop {
		result.Decision = sdktrace.RecordOnly
		result.Tracestate = trace.SpanContextFromContext(params.ParentContext).TraceState()
	}
	return result
}

// Description returns a description of the sampler.
func (s *errorAwareSampler) Description() string {
	return "ErrorAwareSampler{base=" + s.baseSampler.Description() + "}"
}

// ErrorSpanProcessor forwards sampled spans to next, plus unsampled spans
// that ended with an error status. Those are presented as sampled so
// batching processors export them.
type ErrorSpanProcessor struct {
	next sdktrace.SpanProcessor
}

// NewErrorSpanProcessor wraps next.
func NewErrorSpanProcessor(next sdktrace.SpanProcessor) *ErrorSpanProcessor {
	return &ErrorSpanProcessor{next: next}
}

// OnStart implements sdktrace.SpanProcessor.
func (p *ErrorSpanProcessor) OnStart(ctx context.Context, s sdktrace.ReadWriteSpan) {
	p.next.OnStart(ctx, s)
}

// OnEnd implements sdktrace.SpanProcessor.
func (p *ErrorSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	switch {
	case s.SpanContext().IsSampled():
		p.next.OnEnd(s)
	case s.Status().Code == codes.Error:
		p.next.OnEnd(sampledSpan{s})
	}
}

// Shutdown implements sdktrace.SpanProcessor.
func (p *ErrorSpanProcessor) Shutdown(ctx context.Context) error {
	return p.next.Shutdown(ctx)
}

// ForceFlush implements sdktrace.SpanProcessor.
func (p *ErrorSpanProcessor) ForceFlush(ctx context.Context) error {
	return p.next.ForceFlush(ctx)
}

// sampledSpan reports the sampled flag on a recorded span.
type sampledSpan struct {
	sdktrace.ReadOnlySpan
}

func (s sampledSpan) SpanContext() trace.SpanContext {
	sc := s.ReadOnlySpan.SpanContext()
	return sc.WithTraceFlags(sc.TraceFlags().WithSampled(true))
}
