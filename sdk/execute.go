package sdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tombee/genaws/internal/log"
	"github.com/tombee/genaws/internal/tracing"
	"github.com/tombee/genaws/pkg/canon"
	genawserrors "github.com/tombee/genaws/pkg/errors"
)

const (
	headerInvocationID = "amz-sdk-invocation-id"
	headerSDKRequest   = "amz-sdk-request"
)

// outcomeSuccess labels successful calls in genaws_calls_total; failed
// calls are labelled with their error type.
const outcomeSuccess = "success"

// Execute sends req, retrying as the client's policy allows, and returns
// the decoded response tree. A failed call never returns a partial tree.
func (c *Client) Execute(ctx context.Context, req *Request) (*canon.Node, error) {
	cd, err := codecFor(req.Service.Protocol)
	if err != nil {
		return nil, err
	}

	service := req.serviceLabel()
	logger := log.WithCall(c.logger, service, req.Action, req.Region)

	ctx, span := tracing.StartCall(ctx, c.tracer, service, req.Action, req.Region)
	defer span.End()

	start := c.clock.Now()
	invocationID := uuid.NewString()
	maxRetries := c.retry.MaxRetries()

	attempts := 0
	for {
		result, err := c.attempt(ctx, req, cd, attemptInfo{
			number:       attempts,
			maxRetries:   maxRetries,
			invocationID: invocationID,
		})
		if err == nil {
			tracing.EndWithError(span, nil)
			c.metrics.RecordCall(ctx, service, req.Action, outcomeSuccess, c.clock.Now().Sub(start))
			return result, nil
		}

		if attempts >= maxRetries || !c.retry.ShouldRetry(err, attempts) {
			logger.DebugContext(ctx, "call failed",
				log.AttemptKey, attempts,
				"error", err,
			)
			tracing.EndWithError(span, err)
			c.metrics.RecordCall(ctx, service, req.Action, genawserrors.Classify(err), c.clock.Now().Sub(start))
			return nil, err
		}

		delay := c.retry.Delay(err, attempts)
		logger.WarnContext(ctx, "retrying request",
			log.AttemptKey, attempts+1,
			"delay_ms", delay.Milliseconds(),
			"error", err,
		)
		c.metrics.RecordRetry(ctx, service, req.Action, genawserrors.Classify(err))

		if err := c.sleep(ctx, delay, err); err != nil {
			tracing.EndWithError(span, err)
			c.metrics.RecordCall(ctx, service, req.Action, genawserrors.Classify(err), c.clock.Now().Sub(start))
			return nil, err
		}
		attempts++
	}
}

// sleep waits for d on the client's clock, returning early with a
// ClientError when ctx is done. The error carries both the context error
// and last, the failure that triggered the retry.
func (c *Client) sleep(ctx context.Context, d time.Duration, last error) error {
	if err := ctx.Err(); err != nil {
		return &genawserrors.ClientError{Op: "backoff", Cause: errors.Join(err, last)}
	}
	select {
	case <-c.clock.After(d):
		return nil
	case <-ctx.Done():
		return &genawserrors.ClientError{Op: "backoff", Cause: errors.Join(ctx.Err(), last)}
	}
}

type attemptInfo struct {
	number       int
	maxRetries   int
	invocationID string
}

// attempt performs one physical send: fresh request, fresh date, one
// credential snapshot, one signature.
func (c *Client) attempt(ctx context.Context, req *Request, cd codec, a attemptInfo) (*canon.Node, error) {
	ctx, span := tracing.StartAttempt(ctx, c.tracer, a.number)
	defer span.End()

	result, statusCode, err := c.send(ctx, req, cd, a)
	if statusCode != 0 {
		span.SetAttributes(tracing.AttrStatusCode.Int(statusCode))
	}
	var svcErr *genawserrors.ServiceError
	if genawserrors.As(err, &svcErr) && svcErr.RequestID != "" {
		span.SetAttributes(tracing.AttrRequestID.String(svcErr.RequestID))
	}
	tracing.EndWithError(span, err)
	c.metrics.RecordAttempt(ctx, req.serviceLabel(), req.Action, statusCode)
	return result, err
}

func (c *Client) send(ctx context.Context, req *Request, cd codec, a attemptInfo) (*canon.Node, int, error) {
	httpReq, err := req.httpRequest(ctx)
	if err != nil {
		return nil, 0, &genawserrors.ClientError{Op: "build request", Cause: err}
	}
	httpReq.Header.Set(headerInvocationID, a.invocationID)
	httpReq.Header.Set(headerSDKRequest, fmt.Sprintf("attempt=%d; max=%d", a.number+1, a.maxRetries+1))

	if err := c.sign(ctx, req, httpReq); err != nil {
		return nil, 0, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, &genawserrors.ClientError{Op: "send", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &genawserrors.ClientError{Op: "read body", Cause: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		result, err := cd.decodeResult(c.xml, body)
		if err != nil {
			return nil, resp.StatusCode, err
		}
		return result, resp.StatusCode, nil

	case resp.StatusCode >= http.StatusInternalServerError:
		svcErr := genawserrors.NewStatusError(req.serviceLabel(), resp.StatusCode)
		svcErr.RequestID = headerRequestID(resp.Header)
		return nil, resp.StatusCode, svcErr

	default:
		return nil, resp.StatusCode, c.decodeFailure(req, cd, resp, body)
	}
}

// decodeFailure turns a non-2xx, non-5xx response into a ServiceError.
func (c *Client) decodeFailure(req *Request, cd codec, resp *http.Response, body []byte) error {
	f, err := cd.decodeError(c.xml, resp.Header, body)
	svcErr := &genawserrors.ServiceError{
		Message:    f.message,
		Code:       f.code,
		RequestID:  f.requestID,
		StatusCode: resp.StatusCode,
		Service:    req.serviceLabel(),
	}
	if err != nil {
		svcErr.Message = fmt.Sprintf("unable to parse error message: %v", err)
		svcErr.Cause = err
	}
	return svcErr
}
