// Package ports defines the interfaces between the application layer and
// its collaborators: config storage, manifest persistence, signing and
// operator decisions.
package ports

import (
	"context"

	"github.com/slicerhub/slicerhub/internal/domain/entities"
	"github.com/slicerhub/slicerhub/internal/domain/values"
)

// ConfigStore is the read-only accessor for parsed config documents.
type ConfigStore interface {
	// Load resolves a ref through the scope search paths.
	Load(ctx context.Context, ref values.ConfigRef) (*entities.Document, values.Digest, error)
	// LoadPath loads a document by path relative to the store root.
	LoadPath(ctx context.Context, rel string) (*entities.Document, values.Digest, error)
	// Digest returns the current content digest for a ref without
	// parsing the document. Used for cache validity checks.
	Digest(ctx context.Context, ref values.ConfigRef) (values.Digest, error)
}

// ManifestRepository persists the manifest and its detached signature as
// an atomic pair: either both land on disk or neither does.
type ManifestRepository interface {
	// Load returns the decoded manifest and its exact raw bytes, or
	// (nil, nil, nil) when no manifest has been published yet.
	Load(ctx context.Context) (*entities.Manifest, []byte, error)
	// LoadSignature returns the detached signature bytes.
	LoadSignature(ctx context.Context) ([]byte, error)
	// Save writes manifest and signature bytes atomically.
	Save(ctx context.Context, manifest, signature []byte) error
}

// Signer produces a detached signature over exact manifest bytes.
type Signer interface {
	Sign(data []byte) ([]byte, error)
}

// Verifier validates a detached signature over exact manifest bytes.
// Returns a SignatureInvalidError on failure.
type Verifier interface {
	Verify(data, signature []byte) error
}

// ProfileMeta is the operator-supplied identity of a new profile.
type ProfileMeta struct {
	Name   string
	Slicer string
	Type   string
}

// DecisionProvider supplies the interactive decisions the build pipeline
// needs. The pipeline itself has no interactive logic; implementations
// range from terminal forms to fixed defaults for CI.
type DecisionProvider interface {
	// Namespace is asked once, when no previous manifest exists.
	Namespace(ctx context.Context) (string, error)
	// NewProfile supplies metadata for a file absent from the previous
	// manifest. guess holds values derived from the file path.
	NewProfile(ctx context.Context, path string, guess ProfileMeta) (ProfileMeta, error)
	// BumpKind chooses the version bump for a content-modified profile.
	BumpKind(ctx context.Context, profile entities.Profile) (values.BumpKind, error)
	// ConfirmRemoval decides whether profiles whose files disappeared are
	// dropped from the manifest.
	ConfirmRemoval(ctx context.Context, removed []entities.Profile) (bool, error)
}
