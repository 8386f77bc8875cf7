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

// Package sigv4 implements AWS Signature Version 4 request signing.
//
// Every canonicalization step is a pure function so each rule can be
// checked in isolation; Compute strings them together and Signer applies
// the result to an *http.Request.
package sigv4

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/tombee/genaws/internal/log"
)

const (
	// Algorithm is the signing algorithm identifier.
	Algorithm = "AWS4-HMAC-SHA256"

	// AmzDateFormat is the layout of the X-Amz-Date header.
	AmzDateFormat = "20060102T150405Z"

	// HeaderDate carries the signing timestamp.
	HeaderDate = "X-Amz-Date"

	// HeaderSecurityToken carries the session token of temporary credentials.
	HeaderSecurityToken = "X-Amz-Security-Token"

	// HeaderAuthorization carries the computed signature.
	HeaderAuthorization = "Authorization"

	scopeTerminator = "aws4_request"
)

var (
	// ErrMissingDate is returned when a request reaches the signer without
	// an X-Amz-Date header.
	ErrMissingDate = errors.New("sigv4: X-Amz-Date header is required")

	// ErrMissingCredentials is returned for an empty access key or secret.
	ErrMissingCredentials = errors.New("sigv4: access key id and secret access key are required")
)

// Result holds every intermediate artifact of one signature computation.
type Result struct {
	Date             string
	CredentialScope  string
	CanonicalRequest string
	StringToSign     string
	SignedHeaders    string
	Signature        string
	Authorization    string
}

// Compute signs req without modifying it. The request must already carry
// an X-Amz-Date header; payloadHash defaults to the empty-body digest.
func Compute(creds aws.Credentials, req *http.Request, payloadHash, service, region string) (*Result, error) {
	creds = trimCredentials(creds)
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return nil, ErrMissingCredentials
	}

	amzDate := strings.TrimSpace(req.Header.Get(HeaderDate))
	if amzDate == "" {
		return nil, ErrMissingDate
	}
	if _, err := time.Parse(AmzDateFormat, amzDate); err != nil {
		return nil, fmt.Errorf("sigv4: invalid %s %q: %w", HeaderDate, amzDate, err)
	}
	if payloadHash == "" {
		payloadHash = EmptyPayloadHash
	}

	shortDate := amzDate[:8]
	scope := CredentialScope(shortDate, region, service)
	signed := SignedHeaders(req.Header)

	creq := CanonicalRequest(
		req.Method,
		CanonicalPath(req.URL.Path),
		CanonicalQuery(req.URL.RawQuery),
		CanonicalHeaders(req.Header),
		signed,
		payloadHash,
	)
	sts := StringToSign(amzDate, scope, creq)
	key := SigningKey(creds.SecretAccessKey, shortDate, region, service)
	signature := fmt.Sprintf("%x", HMACSHA256(key, []byte(sts)))

	return &Result{
		Date:             amzDate,
		CredentialScope:  scope,
		CanonicalRequest: creq,
		StringToSign:     sts,
		SignedHeaders:    signed,
		Signature:        signature,
		Authorization: fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
			Algorithm, creds.AccessKeyID, scope, signed, signature),
	}, nil
}

// Apply attaches the Authorization header and, when the credentials carry
// a session token and the request has none yet, the security token header.
// A token added here is not covered by the signature.
func (r *Result) Apply(req *http.Request, creds aws.Credentials) {
	req.Header.Set(HeaderAuthorization, r.Authorization)
	if token := strings.TrimSpace(creds.SessionToken); token != "" && req.Header.Get(HeaderSecurityToken) == "" {
		req.Header.Set(HeaderSecurityToken, token)
	}
}

func trimCredentials(c aws.Credentials) aws.Credentials {
	c.AccessKeyID = strings.TrimSpace(c.AccessKeyID)
	c.SecretAccessKey = strings.TrimSpace(c.SecretAccessKey)
	c.SessionToken = strings.TrimSpace(c.SessionToken)
	return c
}

// Signer signs requests in place.
type Signer struct {
	logger *slog.Logger
}

// SignerOption configures a Signer.
type SignerOption func(*Signer)

// WithLogger logs each signed request at debug level, and the canonical
// request and string to sign at trace level.
func WithLogger(logger *slog.Logger) SignerOption {
	return func(s *Signer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSigner returns a Signer that logs nothing unless configured.
func NewSigner(opts ...SignerOption) *Signer {
	s := &Signer{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignHTTP computes the signature for req and attaches it.
func (s *Signer) SignHTTP(ctx context.Context, creds aws.Credentials, req *http.Request, payloadHash, service, region string) error {
	result, err := Compute(creds, req, payloadHash, service, region)
	if err != nil {
		return err
	}
	result.Apply(req, creds)

	s.logger.DebugContext(ctx, "signed request",
		"service", service,
		"region", region,
		"access_key", log.SanitizeAccessKey(creds.AccessKeyID),
		"signed_headers", result.SignedHeaders,
	)
	log.Trace(ctx, s.logger, "canonical request",
		slog.String("canonical_request", result.CanonicalRequest),
		slog.String("string_to_sign", result.StringToSign),
	)
	return nil
}

// Stamp sets X-Amz-Date from now and Host from the request URL when either
// header is absent. It must run before every physical send so the signed
// date is fresh.
func Stamp(req *http.Request, now time.Time) {
	if req.Header == nil {
		req.Header = http.Header{}
	}
	if req.Header.Get(HeaderDate) == "" {
		req.Header.Set(HeaderDate, now.UTC().Format(AmzDateFormat))
	}
	if req.Header.Get("Host") == "" {
		host := req.URL.Host
		if req.Host != "" {
			host = req.Host
		}
		req.Header.Set("Host", host)
	}
}
