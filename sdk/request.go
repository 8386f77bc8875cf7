package sdk

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"github.com/tombee/genaws/pkg/canon"
	"github.com/tombee/genaws/pkg/catalog"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ActionInput describes one service action invocation.
type ActionInput struct {
	// Action is the operation name (e.g., "DescribeInstances")
	Action string

	// Method is the HTTP method. Default: POST
	Method string

	// Path is the request path. Default: empty, sent as "/"
	Path string

	// Parameters is the parameter tree. Nil sends no parameters.
	Parameters *canon.Node

	// Select is an optional jq expression applied to the decoded result
	// by Client.Call.
	Select string
}

// Request is a fully built, unsigned service request together with the
// context the engine needs to sign it and decode its response.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte

	// ServiceName is the catalog name the request was built for.
	ServiceName string

	// Service is the metadata that selected the protocol.
	Service catalog.ServiceMetadata

	// Region is the caller's region; SigningRegion is the region in the
	// credential scope, which differs for global endpoints.
	Region        string
	SigningRegion string

	// Action is the operation name, used for logs, spans and metrics.
	Action string
}

// serviceLabel names the service in errors and telemetry.
func (r *Request) serviceLabel() string {
	if r.ServiceName != "" {
		return r.ServiceName
	}
	return r.Service.EndpointPrefix
}

// httpRequest materializes a fresh *http.Request. Each call returns an
// independent request so stamping and signing one attempt never leaks
// into the next.
func (r *Request) httpRequest(ctx context.Context) (*http.Request, error) {
	u := *r.URL
	var body *bytes.Reader
	if len(r.Body) > 0 {
		body = bytes.NewReader(r.Body)
	}

	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, r.Method, u.String(), body)
	} else {
		req, err = http.NewRequestWithContext(ctx, r.Method, u.String(), nil)
	}
	if err != nil {
		return nil, err
	}
	// Keep the exact escaped path and query the builder produced.
	req.URL = &u
	req.Header = r.Header.Clone()
	if req.Header == nil {
		req.Header = http.Header{}
	}
	return req, nil
}
