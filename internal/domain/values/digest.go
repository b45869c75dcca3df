// Package values contains immutable value objects for the slicerhub domain.
package values

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// digestPrefix is the algorithm tag carried by every digest string.
// The "sha256:<hex>" encoding is part of the manifest wire format and
// must not change without a spec_version bump.
const digestPrefix = "sha256:"

// Digest is a content digest in canonical "sha256:<hex>" form.
type Digest struct {
	value string
}

// DigestBytes computes the digest of a byte slice.
func DigestBytes(data []byte) Digest {
	sum := sha256.Sum256(data)
	return Digest{value: digestPrefix + hex.EncodeToString(sum[:])}
}

// ParseDigest validates and wraps an encoded digest string.
func ParseDigest(s string) (Digest, error) {
	rest, ok := strings.CutPrefix(s, digestPrefix)
	if !ok {
		return Digest{}, fmt.Errorf("digest %q: missing %q prefix", s, digestPrefix)
	}
	if len(rest) != sha256.Size*2 {
		return Digest{}, fmt.Errorf("digest %q: expected %d hex characters, got %d", s, sha256.Size*2, len(rest))
	}
	if _, err := hex.DecodeString(rest); err != nil {
		return Digest{}, fmt.Errorf("digest %q: %w", s, err)
	}
	return Digest{value: s}, nil
}

// String returns the canonical encoded form.
func (d Digest) String() string {
	return d.value
}

// IsEmpty returns true if this is the zero value.
func (d Digest) IsEmpty() bool {
	return d.value == ""
}

// Equals checks if two digests are identical.
func (d Digest) Equals(other Digest) bool {
	return d.value == other.value
}
