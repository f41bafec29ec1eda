package download

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrContentLengthMismatch indicates the byte count did not match Content-Length.
	ErrContentLengthMismatch = errors.New("content length mismatch")
	// ErrChecksumMismatch indicates the file checksum did not match the expected value.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrDownloadCancelled indicates the download was cancelled via context.
	ErrDownloadCancelled = errors.New("download cancelled")
)

// Error wraps a sentinel error with additional detail.
type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// contextReader aborts an in-flight copy when ctx ends, since a plain
// io.Copy has no cancellation point of its own.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	return cr.r.Read(p)
}
