package form

import (
	"encoding"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
)

// ErrUnsupportedValue is returned by [Data.Append] when a part value has no
// byte representation: a nil [Value], a nil marshaler, or a failed
// conversion.
var ErrUnsupportedValue = errors.New("unsupported part value")

// Value is a part payload. The set of implementations is closed: construct
// one with [Bytes], [Text], [File], [SearchParams], [JSON], or [Marshaler].
type Value interface {
	// encode converts the value to its raw part bytes. marshal is the
	// owning aggregate's JSON configuration; only [JSON] values use it.
	encode(marshal MarshalFunc) ([]byte, error)

	// filename is the default filename for the part, or "" if none.
	filename() string
}

// Bytes wraps a raw byte slice as a part value. The bytes are copied at
// append time.
func Bytes(b []byte) Value { return bytesValue(b) }

type bytesValue []byte

func (v bytesValue) encode(MarshalFunc) ([]byte, error) { return slices.Clone(v), nil }
func (v bytesValue) filename() string                   { return "" }

// Text wraps a string as a part value.
func Text(s string) Value { return textValue(s) }

type textValue string

func (v textValue) encode(MarshalFunc) ([]byte, error) { return []byte(v), nil }
func (v textValue) filename() string                   { return "" }

// File references a file on disk. The file is read once, at append time,
// and its base name becomes the part's default filename.
func File(path string) Value { return fileValue(path) }

type fileValue string

func (v fileValue) encode(MarshalFunc) ([]byte, error) {
	b, err := os.ReadFile(string(v))
	if err != nil {
		return nil, fmt.Errorf("reading file part: %w", err)
	}

	return b, nil
}

func (v fileValue) filename() string { return filepath.Base(string(v)) }

// SearchParams wraps query parameters, encoded in application/x-www-form-urlencoded form.
func SearchParams(values url.Values) Value { return searchParamsValue(values) }

type searchParamsValue url.Values

func (v searchParamsValue) encode(MarshalFunc) ([]byte, error) {
	return []byte(url.Values(v).Encode()), nil
}

func (v searchParamsValue) filename() string { return "" }

// JSON wraps any JSON-serializable value, encoded with the aggregate's
// marshal configuration.
func JSON(v any) Value { return jsonValue{v: v} }

type jsonValue struct{ v any }

func (j jsonValue) encode(marshal MarshalFunc) ([]byte, error) {
	b, err := marshal(j.v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}

	return b, nil
}

func (j jsonValue) filename() string { return "" }

// Marshaler wraps a value that knows its own binary representation.
func Marshaler(m encoding.BinaryMarshaler) Value { return marshalerValue{m: m} }

type marshalerValue struct{ m encoding.BinaryMarshaler }

func (v marshalerValue) encode(MarshalFunc) ([]byte, error) {
	if v.m == nil {
		return nil, ErrUnsupportedValue
	}

	b, err := v.m.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}

	return b, nil
}

func (v marshalerValue) filename() string { return "" }
