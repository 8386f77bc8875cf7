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

package sigv4

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Escape percent-encodes s per RFC 3986: only A-Z a-z 0-9 - . _ ~ are
// left as-is and every other byte becomes an uppercase %XX.
func Escape(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return 'A' <= c && c <= 'Z' ||
		'a' <= c && c <= 'z' ||
		'0' <= c && c <= '9' ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

// EscapePath encodes each segment of an unescaped path, keeping the
// slashes between segments.
func EscapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = Escape(s)
	}
	return strings.Join(segs, "/")
}

// CanonicalPath returns the canonical URI for an unescaped path: dot
// segments resolved, each segment encoded, runs of slashes collapsed.
// An empty path is "/".
func CanonicalPath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	segs := strings.Split(p, "/")[1:]

	out := make([]string, 0, len(segs))
	for _, s := range segs {
		switch s {
		case ".":
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, Escape(s))
		}
	}

	result := "/" + strings.Join(out, "/")
	if last := segs[len(segs)-1]; (last == "." || last == "..") && !strings.HasSuffix(result, "/") {
		result += "/"
	}
	for strings.Contains(result, "//") {
		result = strings.ReplaceAll(result, "//", "/")
	}
	return result
}

// CanonicalQuery returns the canonical query string for a raw (still
// escaped) query: each name and value decoded then re-encoded per RFC 3986,
// pairs sorted by name then value, joined with '&'. A parameter without
// '=' has an empty value. Input order never affects the result.
func CanonicalQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	type pair struct{ name, value string }
	var pairs []pair
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		pairs = append(pairs, pair{Escape(unescape(name)), Escape(unescape(value))})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].name != pairs[j].name {
			return pairs[i].name < pairs[j].name
		}
		return pairs[i].value < pairs[j].value
	})

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.name + "=" + p.value
	}
	return strings.Join(parts, "&")
}

// unescape decodes %XX sequences, leaving '+' alone. Malformed input is
// used verbatim.
func unescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}

// headerSet is the normalized view of signable headers.
type headerSet struct {
	names  []string
	values map[string][]string
}

func normalizeHeaders(h http.Header) headerSet {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	// Keys differing only in case merge in a stable order.
	sort.Strings(keys)

	set := headerSet{values: map[string][]string{}}
	for _, k := range keys {
		name := strings.ToLower(strings.TrimSpace(k))
		if name == "authorization" {
			continue
		}
		if _, ok := set.values[name]; !ok {
			set.names = append(set.names, name)
		}
		for _, v := range h[k] {
			set.values[name] = append(set.values[name], collapseSpaces(strings.TrimSpace(v)))
		}
	}
	sort.Strings(set.names)
	return set
}

func collapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}

// CanonicalHeaders returns one "name:value\n" line per header, names
// lowercased and sorted, values trimmed with space runs collapsed and
// repeated values comma-joined in order.
func CanonicalHeaders(h http.Header) string {
	set := normalizeHeaders(h)
	var b strings.Builder
	for _, name := range set.names {
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(strings.Join(set.values[name], ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// SignedHeaders returns the sorted, lowercased, semicolon-joined header
// names covered by the signature.
func SignedHeaders(h http.Header) string {
	return strings.Join(normalizeHeaders(h).names, ";")
}

// CanonicalRequest joins the canonical request components.
func CanonicalRequest(method, canonicalPath, canonicalQuery, canonicalHeaders, signedHeaders, payloadHash string) string {
	return strings.Join([]string{
		method,
		canonicalPath,
		canonicalQuery,
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")
}

// CredentialScope returns date/region/service/aws4_request.
func CredentialScope(shortDate, region, service string) string {
	return strings.Join([]string{shortDate, region, service, scopeTerminator}, "/")
}

// StringToSign returns the algorithm line, the request date, the
// credential scope and the digest of the canonical request.
func StringToSign(amzDate, credentialScope, canonicalRequest string) string {
	return strings.Join([]string{
		Algorithm,
		amzDate,
		credentialScope,
		SHA256Hex([]byte(canonicalRequest)),
	}, "\n")
}

// SigningKey derives the scoped key from the secret access key.
func SigningKey(secretKey, shortDate, region, service string) []byte {
	kDate := HMACSHA256([]byte("AWS4"+secretKey), []byte(shortDate))
	kRegion := HMACSHA256(kDate, []byte(region))
	kService := HMACSHA256(kRegion, []byte(service))
	return HMACSHA256(kService, []byte(scopeTerminator))
}
