package download

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandle(t *testing.T) {
	content := []byte("downloaded file contents")
	destPath := filepath.Join(t.TempDir(), "out.bin")

	err := Handle(t.Context(), bytes.NewReader(content), int64(len(content)), destPath, testLogger())
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	got, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("exp content %q, got %q", content, got)
	}
}

func TestHandle_ContentLengthMismatch(t *testing.T) {
	content := []byte("short")
	destPath := filepath.Join(t.TempDir(), "out.bin")

	err := Handle(t.Context(), bytes.NewReader(content), 100, destPath, testLogger())
	if !errors.Is(err, ErrContentLengthMismatch) {
		t.Errorf("exp ErrContentLengthMismatch, got: %v", err)
	}

	if _, statErr := os.Stat(destPath); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("exp temp file cleanup and no destination file, got: %v", statErr)
	}
}

func TestHandle_UnknownContentLength(t *testing.T) {
	content := []byte("server did not declare a length")
	destPath := filepath.Join(t.TempDir(), "out.bin")

	// -1 mirrors http.Response.ContentLength when the length is unknown.
	err := Handle(t.Context(), bytes.NewReader(content), -1, destPath, testLogger())
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	got, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("exp content %q, got %q", content, got)
	}
}

func TestHandle_Checksum(t *testing.T) {
	content := []byte("checksummed contents")
	sum := sha256.Sum256(content)

	t.Run("match", func(t *testing.T) {
		destPath := filepath.Join(t.TempDir(), "out.bin")

		err := Handle(t.Context(), bytes.NewReader(content), int64(len(content)), destPath, testLogger(),
			WithChecksum(sha256.New(), hex.EncodeToString(sum[:])),
		)
		if err != nil {
			t.Fatalf("exp nil err, got: %v", err)
		}
	})

	t.Run("mismatch", func(t *testing.T) {
		destPath := filepath.Join(t.TempDir(), "out.bin")

		err := Handle(t.Context(), bytes.NewReader(content), int64(len(content)), destPath, testLogger(),
			WithChecksum(sha256.New(), strings.Repeat("0", 64)),
		)
		if !errors.Is(err, ErrChecksumMismatch) {
			t.Errorf("exp ErrChecksumMismatch, got: %v", err)
		}

		var dlErr *Error
		if !errors.As(err, &dlErr) {
			t.Errorf("exp *Error with detail, got: %T", err)
		}

		if _, statErr := os.Stat(destPath); !errors.Is(statErr, os.ErrNotExist) {
			t.Errorf("exp no destination file after checksum failure, got: %v", statErr)
		}
	})
}

func TestHandle_SkipExisting(t *testing.T) {
	destPath := filepath.Join(t.TempDir(), "out.bin")
	existing := []byte("already here")
	if err := os.WriteFile(destPath, existing, 0o644); err != nil {
		t.Fatal(err)
	}

	err := Handle(t.Context(), bytes.NewReader([]byte("new contents")), 12, destPath, testLogger(),
		WithSkipExisting(),
	)
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	got, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, existing) {
		t.Errorf("exp existing file untouched, got %q", got)
	}
}

func TestHandle_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	destPath := filepath.Join(t.TempDir(), "out.bin")

	err := Handle(ctx, bytes.NewReader([]byte("never written")), 13, destPath, testLogger())
	if !errors.Is(err, ErrDownloadCancelled) {
		t.Errorf("exp ErrDownloadCancelled, got: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("exp wrapped context.Canceled, got: %v", err)
	}

	if _, statErr := os.Stat(destPath); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("exp no destination file after cancellation, got: %v", statErr)
	}
}

func TestWithChecksum_Validation(t *testing.T) {
	if err := WithChecksum(nil, "abc")(&options{}); err == nil {
		t.Error("exp error for nil hash")
	}
	if err := WithChecksum(sha256.New(), "")(&options{}); err == nil {
		t.Error("exp error for empty expected checksum")
	}
}
