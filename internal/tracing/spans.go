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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope for client spans.
const TracerName = "github.com/tombee/genaws"

// Span attribute keys.
const (
	AttrService    = attribute.Key("aws.service")
	AttrAction     = attribute.Key("aws.action")
	AttrRegion     = attribute.Key("aws.region")
	AttrRequestID  = attribute.Key("aws.request_id")
	AttrAttempt    = attribute.Key("genaws.attempt")
	AttrStatusCode = attribute.Key("http.response.status_code")
	AttrError      = attribute.Key("error")
)

// StartCall starts the client span covering a whole call.
func StartCall(ctx context.Context, tracer trace.Tracer, service, action, region string) (context.Context, trace.Span) {
	return tracer.Start(ctx, service+"."+action,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			AttrService.String(service),
			AttrAction.String(action),
			AttrRegion.String(region),
		),
	)
}

// StartAttempt starts a child span for one physical send.
func StartAttempt(ctx context.Context, tracer trace.Tracer, attempt int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "attempt",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(AttrAttempt.Int(attempt)),
	)
}

// EndWithError sets the span status from err. A nil err marks the span OK.
// The span is not ended.
func EndWithError(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetAttributes(AttrError.Bool(true))
	span.SetStatus(codes.Error, err.Error())
}
