package services

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/slicerhub/slicerhub/internal/application/ports"
	"github.com/slicerhub/slicerhub/internal/domain/entities"
)

// PublishService runs the batch build chain: scan, diff, version, build,
// sign, persist. It is a single-writer operation; concurrent publishes
// against the same repository are last-writer-wins and not supported.
type PublishService struct {
	scanner   ports.Scanner
	repo      ports.ManifestRepository
	signer    ports.Signer
	decisions ports.DecisionProvider
	now       func() time.Time
}

// NewPublishService wires the build chain.
func NewPublishService(
	scanner ports.Scanner,
	repo ports.ManifestRepository,
	signer ports.Signer,
	decisions ports.DecisionProvider,
) *PublishService {
	return &PublishService{
		scanner:   scanner,
		repo:      repo,
		signer:    signer,
		decisions: decisions,
		now:       time.Now,
	}
}

// Publish builds, signs and persists a new manifest. It fails atomically:
// on any error nothing is written and the previous manifest (if any)
// stays in place untouched.
func (s *PublishService) Publish(ctx context.Context) (*entities.Manifest, error) {
	previous, _, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading previous manifest: %w", err)
	}

	var manifest *entities.Manifest
	if previous == nil {
		namespace, err := s.decisions.Namespace(ctx)
		if err != nil {
			return nil, fmt.Errorf("choosing namespace: %w", err)
		}
		manifest = entities.NewManifest(namespace)
		slog.Info("no previous manifest, starting fresh", "namespace", namespace)
	} else {
		manifest = entities.NewManifest(previous.Namespace)
	}

	result, err := s.scanner.Scan(ctx, previous)
	if err != nil {
		return nil, fmt.Errorf("scanning configs: %w", err)
	}

	if len(result.Removed) > 0 {
		ok, err := s.decisions.ConfirmRemoval(ctx, result.Removed)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Keeping a profile whose file is gone would break the
			// path-has-checksum invariant, so the only consistent
			// alternatives are removal or aborting the build.
			return nil, fmt.Errorf("removal of %d missing profile(s) declined; aborting build", len(result.Removed))
		}
		for _, p := range result.Removed {
			slog.Info("removing profile", "name", p.Name, "path", p.Path)
		}
	}

	for _, entry := range result.Entries {
		manifest.Checksums[entry.Path] = entry.Digest.String()

		switch entry.Status {
		case ports.ScanUnchanged:
			// Carried forward wholesale: version, last_updated and every
			// operator-owned field (dependencies) stay as they were.
			manifest.Profiles = append(manifest.Profiles, *previous.ProfileByPath(entry.Path))

		case ports.ScanModified:
			profile := *previous.ProfileByPath(entry.Path)
			kind, err := s.decisions.BumpKind(ctx, profile)
			if err != nil {
				return nil, err
			}
			if err := profile.BumpVersion(kind, s.now()); err != nil {
				return nil, err
			}
			slog.Info("profile updated", "name", profile.Name, "version", profile.Version, "bump", kind)
			manifest.Profiles = append(manifest.Profiles, profile)

		case ports.ScanAdded:
			meta, err := s.decisions.NewProfile(ctx, entry.Path, guessMeta(entry.Path))
			if err != nil {
				return nil, err
			}
			profile := entities.NewProfile(meta.Name, meta.Slicer, meta.Type, entry.Path, s.now())
			slog.Info("new profile", "name", profile.Name, "uuid", profile.UUID, "path", entry.Path)
			manifest.Profiles = append(manifest.Profiles, profile)
		}
	}

	sort.Slice(manifest.Profiles, func(i, j int) bool {
		return manifest.Profiles[i].Path < manifest.Profiles[j].Path
	})

	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	data, err := manifest.Encode()
	if err != nil {
		return nil, err
	}
	signature, err := s.signer.Sign(data)
	if err != nil {
		return nil, fmt.Errorf("signing manifest: %w", err)
	}
	if err := s.repo.Save(ctx, data, signature); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}
	return manifest, nil
}

// guessMeta derives profile metadata from the file path, mirroring the
// configs/<slicer>/<type>/<file> layout. The decision provider may
// override any of it.
func guessMeta(rel string) ports.ProfileMeta {
	parts := strings.Split(path.Clean(rel), "/")
	base := parts[len(parts)-1]
	meta := ports.ProfileMeta{
		Name: strings.TrimSuffix(base, path.Ext(base)),
	}
	if len(parts) >= 3 {
		meta.Slicer = parts[len(parts)-3]
		meta.Type = parts[len(parts)-2]
	}
	return meta
}
