package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"unicode/utf8"
)

// ErrMissingBoundary is returned by [Decode] when the content type carries
// no boundary parameter. It is the only hard decode failure.
var ErrMissingBoundary = errors.New("content type missing boundary parameter")

// Decode reconstructs a [Data] from raw multipart bytes and the payload's
// Content-Type header value.
//
// The scan is byte-exact, not UTF-8 aware: part payloads may be arbitrary
// binary. Decoding is deliberately lenient, matching real-world producers
// that bend the RFC grammar: a part span without a blank-line
// marker or with a non-UTF-8 header block is dropped, and header lines
// without a colon are skipped. Dropped data is not reported.
func Decode(data []byte, contentType string) (*Data, error) {
	boundary, err := boundaryParam(contentType)
	if err != nil {
		return nil, err
	}

	d := &Data{
		boundary: boundary,
		marshal:  json.Marshal,
	}

	delim := []byte("--" + boundary)

	// Skip any preamble before the first delimiter.
	rest := data
	i := bytes.Index(rest, delim)
	if i < 0 {
		return d, nil
	}
	rest = rest[i+len(delim):]

	for {
		// A delimiter immediately followed by "--" terminates the payload.
		if bytes.HasPrefix(rest, []byte("--")) {
			break
		}

		j := bytes.Index(rest, delim)
		if j < 0 {
			break
		}

		if part, ok := parsePart(rest[:j]); ok {
			d.parts = append(d.parts, part)
		}

		rest = rest[j+len(delim):]
	}

	return d, nil
}

// parsePart splits one delimiter-to-delimiter span into headers and
// payload. ok is false when the span is malformed and should be dropped.
func parsePart(span []byte) (Part, bool) {
	span = bytes.TrimSuffix(span, []byte("\r\n"))

	headerBlock, payload, found := bytes.Cut(span, []byte("\r\n\r\n"))
	if !found {
		return Part{}, false
	}

	if !utf8.Valid(headerBlock) {
		return Part{}, false
	}

	var headers []Header
	for line := range strings.SplitSeq(string(headerBlock), "\r\n") {
		if line == "" {
			continue
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		headers = append(headers, Header{Name: name, Value: strings.TrimSpace(value)})
	}

	return Part{Headers: headers, Data: slices.Clone(payload)}, true
}

// boundaryParam extracts the boundary token following "boundary=" in the
// content type, stripping an optional quote wrapping and trailing
// parameters.
func boundaryParam(contentType string) (string, error) {
	_, after, found := strings.Cut(contentType, "boundary=")
	if !found {
		return "", ErrMissingBoundary
	}

	boundary, _, _ := strings.Cut(after, ";")
	boundary = strings.Trim(strings.TrimSpace(boundary), `"`)
	if boundary == "" {
		return "", ErrMissingBoundary
	}

	return boundary, nil
}
