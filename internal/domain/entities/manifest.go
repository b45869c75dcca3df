package entities

import (
	"encoding/json"
	"fmt"

	"github.com/slicerhub/slicerhub/internal/domain/values"
)

// SpecVersion is the manifest format version this engine reads and writes.
const SpecVersion = "1.0"

// Manifest is the aggregate root of a profile repository: the signed
// index of every tracked profile and file checksum.
//
// Invariants:
//   - every profile path appears as a key in Checksums
//   - every checksum value is a well-formed "sha256:<hex>" digest
//   - profile uuids are unique
//
// A manifest is immutable once signed; any byte change invalidates the
// detached signature over its encoded form.
type Manifest struct {
	SpecVersion string            `json:"spec_version"`
	Namespace   string            `json:"namespace"`
	Profiles    []Profile         `json:"profiles"`
	Checksums   map[string]string `json:"checksums"`
}

// NewManifest creates an empty manifest for a namespace.
func NewManifest(namespace string) *Manifest {
	return &Manifest{
		SpecVersion: SpecVersion,
		Namespace:   namespace,
		Profiles:    []Profile{},
		Checksums:   map[string]string{},
	}
}

// ProfileByPath returns the profile tracking the given relative path.
func (m *Manifest) ProfileByPath(path string) *Profile {
	for i := range m.Profiles {
		if m.Profiles[i].Path == path {
			return &m.Profiles[i]
		}
	}
	return nil
}

// ProfileByUUID returns the profile with the given uuid.
func (m *Manifest) ProfileByUUID(id string) *Profile {
	for i := range m.Profiles {
		if m.Profiles[i].UUID == id {
			return &m.Profiles[i]
		}
	}
	return nil
}

// Checksum returns the recorded digest for a path.
func (m *Manifest) Checksum(path string) (values.Digest, bool) {
	s, ok := m.Checksums[path]
	if !ok {
		return values.Digest{}, false
	}
	d, err := values.ParseDigest(s)
	if err != nil {
		return values.Digest{}, false
	}
	return d, true
}

// Validate checks the manifest's internal consistency.
func (m *Manifest) Validate() error {
	if m.SpecVersion == "" {
		return fmt.Errorf("manifest: spec_version is required")
	}
	if m.Namespace == "" {
		return fmt.Errorf("manifest: namespace is required")
	}
	seen := make(map[string]string, len(m.Profiles))
	for _, p := range m.Profiles {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
		if other, dup := seen[p.UUID]; dup {
			return fmt.Errorf("manifest: profiles %q and %q share uuid %s", other, p.Name, p.UUID)
		}
		seen[p.UUID] = p.Name
		if _, ok := m.Checksums[p.Path]; !ok {
			return fmt.Errorf("manifest: profile %q references path %q with no checksum", p.Name, p.Path)
		}
	}
	for path, sum := range m.Checksums {
		if _, err := values.ParseDigest(sum); err != nil {
			return fmt.Errorf("manifest: checksum for %q: %w", path, err)
		}
	}
	return nil
}

// Encode renders the canonical byte form the signature covers. The
// encoding is fixed (two-space indent, sorted checksum keys, trailing
// newline); verification must always run over these exact bytes, never a
// re-parsed and re-emitted copy.
func (m *Manifest) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeManifest parses manifest bytes.
func DecodeManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil
}
