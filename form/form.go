package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Header is a single part header line. Slice order is insertion order on
// encode and scan order on decode.
type Header struct {
	Name  string
	Value string
}

// Part is one named unit of a multipart payload: its headers and raw bytes.
// A Part is immutable once appended to a [Data].
type Part struct {
	Headers []Header
	Data    []byte
}

// Header returns the value of the first header matching name,
// case-insensitively per RFC 7230 field-name matching.
func (p Part) Header(name string) (string, bool) {
	for _, h := range p.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}

	return "", false
}

// DispositionName returns the name parameter of the part's
// Content-Disposition header, or "" if absent.
func (p Part) DispositionName() string {
	return p.dispositionParam("name")
}

// Filename returns the filename parameter of the part's
// Content-Disposition header, or "" if absent.
func (p Part) Filename() string {
	return p.dispositionParam("filename")
}

func (p Part) dispositionParam(key string) string {
	disposition, ok := p.Header("Content-Disposition")
	if !ok {
		return ""
	}

	for param := range strings.SplitSeq(disposition, ";") {
		name, value, found := strings.Cut(strings.TrimSpace(param), "=")
		if !found || !strings.EqualFold(name, key) {
			continue
		}

		return unescapeQuotes(strings.Trim(value, `"`))
	}

	return ""
}

// MarshalFunc converts a [JSON] part value to bytes. [Data] defaults to
// [encoding/json.Marshal]; override per aggregate with [WithMarshal] rather
// than through shared process state.
type MarshalFunc func(v any) ([]byte, error)

// Data is an ordered multipart/form-data aggregate. It is not internally
// synchronized: concurrent Append calls require external exclusive access,
// like any growable buffer. Encode is a pure function of current state.
type Data struct {
	boundary string
	marshal  MarshalFunc
	parts    []Part
}

// Option is a functional option for configuring a [Data] via [New].
type Option func(*options) error
type options struct {
	boundary string
	marshal  MarshalFunc
}

// WithBoundary sets a caller-supplied boundary token instead of a generated
// one. The token must satisfy the RFC 2046 boundary grammar; whether it
// collides with part payload bytes is not verified (see [Data.Encode]).
func WithBoundary(boundary string) Option {
	return func(o *options) error {
		if err := validateBoundary(boundary); err != nil {
			return err
		}
		o.boundary = boundary
		return nil
	}
}

// WithMarshal overrides the JSON marshal func used for [JSON] part values.
func WithMarshal(fn MarshalFunc) Option {
	return func(o *options) error {
		if fn == nil {
			return errors.New("marshal func must not be nil")
		}
		o.marshal = fn
		return nil
	}
}

// New returns an empty [Data]. Without [WithBoundary], the boundary is a
// random 32-char token derived from a V4 UUID.
func New(optFns ...Option) (*Data, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying form option: %w", err)
		}
	}

	d := &Data{
		boundary: opts.boundary,
		marshal:  opts.marshal,
	}

	if d.boundary == "" {
		d.boundary = randomBoundary()
	}
	if d.marshal == nil {
		d.marshal = json.Marshal
	}

	return d, nil
}

// Boundary returns the delimiter token separating parts.
func (d *Data) Boundary() string {
	return d.boundary
}

// ContentType returns the Content-Type header value for the whole payload.
func (d *Data) ContentType() string {
	return "multipart/form-data; boundary=" + d.boundary
}

// Len returns the number of appended parts.
func (d *Data) Len() int {
	return len(d.parts)
}

// Parts returns the parts in append (or decode) order. The returned slice
// is a copy; the Part contents are shared and must be treated as read-only.
func (d *Data) Parts() []Part {
	parts := make([]Part, len(d.parts))
	copy(parts, d.parts)

	return parts
}

// AppendOption is a functional option for [Data.Append].
type AppendOption func(*appendOpts) error

type appendOpts struct {
	filename    string
	contentType string
}

// WithFilename sets the filename parameter on the part's
// Content-Disposition header. When no explicit content type is given, the
// part's Content-Type is inferred from the filename extension.
func WithFilename(filename string) AppendOption {
	return func(opts *appendOpts) error {
		if filename == "" {
			return errors.New("filename must not be empty")
		}
		opts.filename = filename
		return nil
	}
}

// WithContentType sets an explicit Content-Type header on the part,
// overriding extension-based inference.
func WithContentType(contentType string) AppendOption {
	return func(opts *appendOpts) error {
		if contentType == "" {
			return errors.New("content type must not be empty")
		}
		opts.contentType = contentType
		return nil
	}
}

// Append converts value to bytes and appends it as a named part. A failed
// conversion leaves previously appended parts untouched.
func (d *Data) Append(name string, value Value, optFns ...AppendOption) error {
	var opts appendOpts
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return fmt.Errorf("applying append option: %w", err)
		}
	}

	if value == nil {
		return fmt.Errorf("part %q: %w", name, ErrUnsupportedValue)
	}

	payload, err := value.encode(d.marshal)
	if err != nil {
		return fmt.Errorf("encoding part %q: %w", name, err)
	}

	filename := opts.filename
	if filename == "" {
		filename = value.filename()
	}

	disposition := `form-data; name="` + escapeQuotes(name) + `"`
	if filename != "" {
		disposition += `; filename="` + escapeQuotes(filename) + `"`
	}

	headers := []Header{{Name: "Content-Disposition", Value: disposition}}

	contentType := opts.contentType
	if contentType == "" && filename != "" {
		contentType = MIMEType(filename)
	}
	if contentType != "" {
		headers = append(headers, Header{Name: "Content-Type", Value: contentType})
	}

	d.parts = append(d.parts, Part{Headers: headers, Data: payload})

	return nil
}

func randomBoundary() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// validateBoundary checks the rfc2046#section-5.1.1 boundary grammar.
func validateBoundary(boundary string) error {
	if len(boundary) < 1 || len(boundary) > 69 {
		return errors.New("invalid boundary length")
	}

	for _, b := range boundary {
		if 'A' <= b && b <= 'Z' || 'a' <= b && b <= 'z' || '0' <= b && b <= '9' {
			continue
		}
		switch b {
		case '\'', '(', ')', '+', '_', ',', '-', '.', '/', ':', '=', '?':
			continue
		}
		return fmt.Errorf("invalid boundary character %q", b)
	}

	return nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
var quoteUnescaper = strings.NewReplacer(`\\`, `\`, `\"`, `"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func unescapeQuotes(s string) string {
	return quoteUnescaper.Replace(s)
}
