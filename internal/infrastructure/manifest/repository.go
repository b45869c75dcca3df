// Package manifest persists the repository manifest and its detached
// signature on the filesystem.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/slicerhub/slicerhub/internal/domain/entities"
)

const (
	// FileName is the manifest file at the repository root.
	FileName = "manifest.json"
	// SignatureFileName is the detached signature next to it.
	SignatureFileName = "manifest.json.sig"
)

// Repository stores manifest.json and manifest.json.sig under a
// repository root directory.
type Repository struct {
	root string
}

// NewRepository creates a repository rooted at dir.
func NewRepository(dir string) *Repository {
	return &Repository{root: dir}
}

// Load reads and decodes the manifest, returning the raw bytes alongside
// the parsed form so signatures can be checked over the exact stored
// representation. A missing manifest is not an error; all three return
// values are nil.
func (r *Repository) Load(ctx context.Context) (*entities.Manifest, []byte, error) {
	raw, err := os.ReadFile(filepath.Join(r.root, FileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := entities.DecodeManifest(raw)
	if err != nil {
		return nil, nil, err
	}
	return m, raw, nil
}

// LoadSignature reads the detached signature bytes.
func (r *Repository) LoadSignature(ctx context.Context) ([]byte, error) {
	sig, err := os.ReadFile(filepath.Join(r.root, SignatureFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &entities.SignatureInvalidError{Reason: "manifest signature file is missing"}
		}
		return nil, err
	}
	return sig, nil
}

// Save writes the manifest and signature as a pair. Each file is staged
// to a temp file and moved into place with rename, manifest first, so a
// crash never leaves a half-written file behind.
func (r *Repository) Save(ctx context.Context, data, signature []byte) error {
	if err := r.writeAtomic(FileName, data); err != nil {
		return err
	}
	return r.writeAtomic(SignatureFileName, signature)
}

func (r *Repository) writeAtomic(name string, data []byte) error {
	target := filepath.Join(r.root, name)
	tmp, err := os.CreateTemp(r.root, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("staging %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("staging %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("staging %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}
