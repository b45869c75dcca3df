package ports

import (
	"context"

	"github.com/slicerhub/slicerhub/internal/domain/entities"
	"github.com/slicerhub/slicerhub/internal/domain/values"
)

// ScanStatus classifies a config file against the previous manifest.
type ScanStatus int

const (
	// ScanAdded marks a file absent from the previous manifest.
	ScanAdded ScanStatus = iota
	// ScanModified marks a file whose checksum changed.
	ScanModified
	// ScanUnchanged marks a file whose checksum matches the manifest.
	// Its profile entry is carried forward untouched, version included.
	ScanUnchanged
)

// String returns the status name for logging.
func (s ScanStatus) String() string {
	switch s {
	case ScanAdded:
		return "added"
	case ScanModified:
		return "modified"
	default:
		return "unchanged"
	}
}

// ScanEntry is one config file found on disk.
type ScanEntry struct {
	// Path is relative to the repository root, slash-separated.
	Path   string
	Digest values.Digest
	Status ScanStatus
}

// ScanResult is the diff between the configs directory and the previous
// manifest.
type ScanResult struct {
	Entries []ScanEntry
	// Removed lists profiles from the previous manifest whose files no
	// longer exist on disk.
	Removed []entities.Profile
}

// Scanner walks the configs directory and diffs it against the previous
// manifest.
type Scanner interface {
	Scan(ctx context.Context, previous *entities.Manifest) (*ScanResult, error)
}

// ContentAddresser digests repository files by relative path. Used by the
// verify pipeline to audit manifest checksums against disk.
type ContentAddresser interface {
	DigestPath(ctx context.Context, rel string) (values.Digest, error)
}

// ManifestValidator checks manifest bytes against the wire-format schema.
type ManifestValidator interface {
	Validate(data []byte) error
}
