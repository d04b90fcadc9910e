// Package fingerprint computes the deterministic content hashes that
// identify client binaries in the catalog.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// Algorithm names the digest used for all fingerprints.
// It is part of the catalog contract: servers compare client hashes
// against catalog entries, so the algorithm is fixed.
const Algorithm = "sha256"

// Sum computes the fingerprint of everything readable from r,
// rendered as lowercase hexadecimal.
func Sum(r io.Reader) (string, error) {
	hasher := sha256.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", fmt.Errorf("calculate fingerprint: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// SumBytes computes the fingerprint of the provided bytes.
func SumBytes(data []byte) string {
	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:])
}

// SumString computes the fingerprint of the UTF-8 bytes of s.
// Mobile clients report the hash of their version string instead of
// a binary hash, so catalogs for those platforms are derived this way.
func SumString(s string) string {
	return SumBytes([]byte(s))
}

// IsDigest reports whether s looks like a fingerprint produced by this package.
func IsDigest(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}

	for _, ch := range s {
		if !strings.ContainsRune("0123456789abcdef", ch) {
			return false
		}
	}

	return true
}
