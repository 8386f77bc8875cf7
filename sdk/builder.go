package sdk

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/tombee/genaws/pkg/catalog"
	"github.com/tombee/genaws/pkg/endpoint"
	genawserrors "github.com/tombee/genaws/pkg/errors"
	"github.com/tombee/genaws/pkg/sigv4"
)

// Builder turns an action invocation into an unsigned Request.
type Builder struct {
	resolver endpoint.Resolver
}

// NewBuilder returns a Builder that resolves hosts with resolver, or with
// endpoint.DefaultResolver when resolver is nil.
func NewBuilder(resolver endpoint.Resolver) *Builder {
	if resolver == nil {
		resolver = endpoint.DefaultResolver{}
	}
	return &Builder{resolver: resolver}
}

// Build encodes in for the service described by meta in region.
//
// Example:
//
//	req, err := sdk.NewBuilder(nil).Build(meta, "us-east-1", sdk.ActionInput{
//		Action:     "ListMetrics",
//		Parameters: canon.NewObject().Set("Namespace", canon.String("AWS/EC2")),
//	})
func (b *Builder) Build(meta catalog.ServiceMetadata, region string, in ActionInput) (*Request, error) {
	if in.Action == "" {
		return nil, &genawserrors.ConfigurationError{Key: "action", Reason: "action name is required"}
	}
	c, err := codecFor(meta.Protocol)
	if err != nil {
		return nil, err
	}

	ep, err := b.resolver.Resolve(region, meta)
	if err != nil {
		return nil, err
	}

	method := strings.ToUpper(in.Method)
	if method == "" {
		method = http.MethodPost
	}

	enc, err := c.encode(meta, method, in.Action, in.Parameters)
	if err != nil {
		return nil, &genawserrors.ConfigurationError{Key: "parameters", Reason: err.Error(), Cause: err}
	}

	path := in.Path
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := &url.URL{
		Scheme:   "https",
		Host:     ep.Host,
		Path:     path,
		RawQuery: enc.rawQuery,
	}
	if path != "" {
		u.RawPath = sigv4.EscapePath(path)
	}

	return &Request{
		Method:        method,
		URL:           u,
		Header:        enc.header,
		Body:          enc.body,
		Service:       meta,
		Region:        region,
		SigningRegion: ep.SigningRegion,
		Action:        in.Action,
	}, nil
}
