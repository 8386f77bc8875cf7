// Package httpclient builds the default HTTP client used to send signed
// AWS requests.
//
// The client layers a logging round-tripper over a pooled TLS transport:
//   - TLS 1.2 minimum (TLS 1.3 preferred)
//   - Connection pooling with sensible limits
//   - User-Agent injection when the request has none
//   - Request logging with presigned query values redacted
//
// Retries are not done here. The execution engine owns the retry policy
// because every attempt must be re-signed.
//
// # Usage
//
//	cfg := httpclient.DefaultConfig()
//	cfg.UserAgent = "genaws/1.0.0"
//	client, err := httpclient.New(cfg)
//	if err != nil {
//	    return err
//	}
//
// # Observability
//
// All requests emit structured logs via log/slog:
//   - Debug level: responses with status below 400
//   - Warn level: 4xx/5xx responses and transport errors
//   - Fields: method, url (sanitized), status, duration_ms, error, trace_id
package httpclient
