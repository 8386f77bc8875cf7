package sdk

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/tombee/genaws/pkg/canon"
	"github.com/tombee/genaws/pkg/catalog"
	"github.com/tombee/genaws/pkg/sigv4"
	"github.com/tombee/genaws/pkg/xmltree"
)

const (
	formContentType = "application/x-www-form-urlencoded; charset=utf-8"

	headerTarget    = "X-Amz-Target"
	headerErrorType = "X-Amzn-ErrorType"
)

// requestIDHeaders are consulted in order for the request id of a json
// error response.
var requestIDHeaders = []string{"X-Amzn-RequestId", "X-Amz-Request-Id"}

// encoded is the protocol specific part of a request.
type encoded struct {
	rawQuery string
	body     []byte
	header   http.Header
}

// fault is what an error body contributes to a ServiceError.
type fault struct {
	message   string
	code      string
	requestID string
}

// codec is one protocol family: how its requests are encoded and how its
// success and error bodies are decoded.
type codec struct {
	encode       func(meta catalog.ServiceMetadata, method, action string, params *canon.Node) (encoded, error)
	decodeResult func(xml *xmltree.Parser, body []byte) (*canon.Node, error)
	decodeError  func(xml *xmltree.Parser, header http.Header, body []byte) (fault, error)
}

// protocolCodecs is the single dispatch table for every supported
// protocol. Request building, result decoding and error decoding all go
// through it.
var protocolCodecs = map[catalog.Protocol]codec{
	catalog.ProtocolQuery:    {encode: encodeForm, decodeResult: decodeXML, decodeError: decodeXMLError},
	catalog.ProtocolEC2:      {encode: encodeForm, decodeResult: decodeXML, decodeError: decodeXMLError},
	catalog.ProtocolJSON:     {encode: encodeJSON, decodeResult: decodeJSON, decodeError: decodeJSONError},
	catalog.ProtocolRESTJSON: {encode: encodeJSON, decodeResult: decodeJSON, decodeError: decodeJSONError},
}

func codecFor(p catalog.Protocol) (codec, error) {
	c, ok := protocolCodecs[p]
	if !ok {
		return codec{}, catalog.UnknownProtocolError(string(p))
	}
	return c, nil
}

// encodePairs renders pairs as name=value joined by '&', both sides
// RFC 3986 encoded, in the given order.
func encodePairs(pairs []canon.Pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(sigv4.Escape(p.Key))
		b.WriteByte('=')
		b.WriteString(sigv4.Escape(p.Value))
	}
	return b.String()
}

func encodeForm(meta catalog.ServiceMetadata, method, action string, params *canon.Node) (encoded, error) {
	pairs := []canon.Pair{
		{Key: "Action", Value: action},
		{Key: "Version", Value: meta.APIVersion},
	}
	pairs = append(pairs, canon.Flatten(params, "")...)
	form := encodePairs(pairs)

	if method != http.MethodPost {
		return encoded{rawQuery: form, header: http.Header{}}, nil
	}
	h := http.Header{}
	h.Set("Content-Type", formContentType)
	return encoded{body: []byte(form), header: h}, nil
}

func encodeJSON(meta catalog.ServiceMetadata, method, action string, params *canon.Node) (encoded, error) {
	h := http.Header{}
	if meta.Protocol == catalog.ProtocolJSON {
		h.Set(headerTarget, meta.TargetPrefix+"."+action)
	}

	if method != http.MethodPost {
		return encoded{rawQuery: encodePairs(canon.Flatten(params, "")), header: h}, nil
	}

	body := []byte("{}")
	if params.IsObject() {
		b, err := params.MarshalJSON()
		if err != nil {
			return encoded{}, fmt.Errorf("encode parameters: %w", err)
		}
		body = b
	}
	h.Set("Content-Type", meta.ContentType())
	return encoded{body: body, header: h}, nil
}

// emptyBody reports whether a response carried no document.
func emptyBody(body []byte) bool {
	return len(bytes.TrimSpace(body)) == 0
}

func decodeXML(xml *xmltree.Parser, body []byte) (*canon.Node, error) {
	if emptyBody(body) {
		return canon.NewObject(), nil
	}
	return xml.Parse(bytes.NewReader(body))
}

func decodeJSON(_ *xmltree.Parser, body []byte) (*canon.Node, error) {
	if emptyBody(body) {
		return canon.NewObject(), nil
	}
	return canon.ParseJSONBytes(body)
}

// decodeXMLError reads the query shape
// <ErrorResponse><Error>...</Error><RequestId/></ErrorResponse> and the ec2
// shape <Response><Errors><Error>...</Error></Errors><RequestID/></Response>.
func decodeXMLError(xml *xmltree.Parser, _ http.Header, body []byte) (fault, error) {
	tree, err := xml.Parse(bytes.NewReader(body))
	if err != nil {
		return fault{}, err
	}

	detail := tree.Get("Error")
	if detail.IsMissing() {
		errs := tree.Get("Errors")
		if errs.IsArray() {
			// Several <Error> children collapse Errors into the list itself.
			detail = errs.Index(0)
		} else {
			detail = errs.Get("Error")
		}
	}
	if detail.IsArray() {
		detail = detail.Index(0)
	}

	requestID := tree.Get("RequestID").Text()
	if requestID == "" {
		requestID = tree.Get("RequestId").Text()
	}
	return fault{
		message:   detail.Get("Message").Text(),
		code:      detail.Get("Code").Text(),
		requestID: requestID,
	}, nil
}

func decodeJSONError(_ *xmltree.Parser, header http.Header, body []byte) (fault, error) {
	f := fault{
		code:      headerErrorCode(header),
		requestID: headerRequestID(header),
	}

	tree, err := canon.ParseJSONBytes(body)
	if err != nil {
		return f, err
	}

	if msg := tree.Get("Message"); !msg.IsMissing() {
		f.message = msg.Text()
	} else {
		f.message = tree.Get("message").Text()
	}
	if typ := tree.Get("__type").Text(); typ != "" {
		f.code = typ[strings.LastIndex(typ, "#")+1:]
	}
	return f, nil
}

// headerErrorCode returns the X-Amzn-ErrorType value up to its first ':'.
func headerErrorCode(h http.Header) string {
	v := h.Get(headerErrorType)
	if i := strings.IndexByte(v, ':'); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

func headerRequestID(h http.Header) string {
	for _, name := range requestIDHeaders {
		if v := h.Get(name); v != "" {
			return v
		}
	}
	return ""
}
