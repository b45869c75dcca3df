package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/slicerhub/slicerhub/internal/domain/values"
)

// Profile is one manifest entry tracking a config file.
//
// The UUID is assigned once on first sight and never changes; it is the
// only stable cross-reference between profiles, so names can be renamed
// without breaking dependents. Dependencies is a carry-forward field: it
// is edited by operators, not derived from file content, and the builder
// must preserve it across regenerations.
type Profile struct {
	UUID         string    `json:"uuid"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Slicer       string    `json:"slicer"`
	Version      string    `json:"version"`
	Path         string    `json:"path"`
	Dependencies []string  `json:"dependencies"`
	LastUpdated  time.Time `json:"last_updated"`
}

// NewProfile creates a profile for a newly discovered config file.
func NewProfile(name, slicer, profileType, path string, now time.Time) Profile {
	return Profile{
		UUID:         uuid.NewString(),
		Name:         name,
		Type:         profileType,
		Slicer:       slicer,
		Version:      values.InitialVersion().String(),
		Path:         path,
		Dependencies: []string{},
		LastUpdated:  now.UTC(),
	}
}

// BumpVersion increments the profile version, enforcing that versions
// strictly increase. Called only when the file's checksum changed.
func (p *Profile) BumpVersion(kind values.BumpKind, now time.Time) error {
	current, err := values.ParseVersion(p.Version)
	if err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	next := current.Bump(kind)
	if !next.GreaterThan(current) {
		return fmt.Errorf("profile %s: bump %s did not increase version %s", p.Name, kind, current)
	}
	p.Version = next.String()
	p.LastUpdated = now.UTC()
	return nil
}

// Validate checks the profile's structural invariants.
func (p Profile) Validate() error {
	if p.UUID == "" {
		return fmt.Errorf("profile %q: uuid is required", p.Name)
	}
	if _, err := uuid.Parse(p.UUID); err != nil {
		return fmt.Errorf("profile %q: invalid uuid: %w", p.Name, err)
	}
	if p.Name == "" {
		return fmt.Errorf("profile %s: name is required", p.UUID)
	}
	if p.Path == "" {
		return fmt.Errorf("profile %q: path is required", p.Name)
	}
	if _, err := values.ParseVersion(p.Version); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return nil
}
