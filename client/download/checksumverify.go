package download

import (
	"encoding/hex"
	"fmt"
	"hash"
)

// checksumVerifier accumulates the digest of every downloaded byte for
// comparison against an expected hex string once the copy completes.
type checksumVerifier struct {
	hash     hash.Hash
	expected string
}

func (v *checksumVerifier) Write(p []byte) (int, error) {
	return v.hash.Write(p)
}

// Verify compares the accumulated digest with the expected one. A nil
// receiver reports success, so Handle needs no option-set check.
func (v *checksumVerifier) Verify() error {
	if v == nil {
		return nil
	}

	got := hex.EncodeToString(v.hash.Sum(nil))
	if got != v.expected {
		return &Error{
			Err:    ErrChecksumMismatch,
			Detail: fmt.Sprintf("expected %s, got %s", v.expected, got),
		}
	}

	return nil
}
