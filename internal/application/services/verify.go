package services

import (
	"context"
	"fmt"

	"github.com/slicerhub/slicerhub/internal/application/ports"
	"github.com/slicerhub/slicerhub/internal/domain/entities"
	"github.com/slicerhub/slicerhub/internal/domain/values"
)

// VerifyService audits a repository snapshot: signature over the exact
// manifest bytes, schema conformance, internal consistency and a full
// checksum sweep. Any failure untrusts the whole snapshot; no individual
// profile from a failed manifest should be used.
type VerifyService struct {
	repo      ports.ManifestRepository
	verifier  ports.Verifier
	validator ports.ManifestValidator
	files     ports.ContentAddresser
}

// NewVerifyService wires the verification pipeline.
func NewVerifyService(
	repo ports.ManifestRepository,
	verifier ports.Verifier,
	validator ports.ManifestValidator,
	files ports.ContentAddresser,
) *VerifyService {
	return &VerifyService{
		repo:      repo,
		verifier:  verifier,
		validator: validator,
		files:     files,
	}
}

// Verify runs the audit and returns the trusted manifest on success.
func (s *VerifyService) Verify(ctx context.Context) (*entities.Manifest, error) {
	manifest, raw, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if manifest == nil {
		return nil, fmt.Errorf("repository has no manifest")
	}

	signature, err := s.repo.LoadSignature(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading signature: %w", err)
	}

	// The signature covers the raw bytes as stored, never a re-encoded
	// parse.
	if err := s.verifier.Verify(raw, signature); err != nil {
		return nil, err
	}

	if s.validator != nil {
		if err := s.validator.Validate(raw); err != nil {
			return nil, fmt.Errorf("manifest schema: %w", err)
		}
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	for path, sum := range manifest.Checksums {
		expected, err := values.ParseDigest(sum)
		if err != nil {
			return nil, fmt.Errorf("manifest checksum for %q: %w", path, err)
		}
		actual, err := s.files.DigestPath(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if !actual.Equals(expected) {
			return nil, &entities.ChecksumMismatchError{
				Path:     path,
				Expected: expected,
				Actual:   actual,
			}
		}
	}
	return manifest, nil
}
