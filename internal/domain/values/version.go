package values

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// BumpKind selects which semantic version component to increment.
type BumpKind string

const (
	BumpMajor BumpKind = "major"
	BumpMinor BumpKind = "minor"
	BumpPatch BumpKind = "patch"
)

// ParseBumpKind validates a bump kind supplied by an operator.
func ParseBumpKind(s string) (BumpKind, error) {
	switch BumpKind(s) {
	case BumpMajor, BumpMinor, BumpPatch:
		return BumpKind(s), nil
	}
	return "", fmt.Errorf("invalid bump kind %q (expected major, minor or patch)", s)
}

// Version is a validated semantic version.
type Version struct {
	v *semver.Version
}

// InitialVersion is the version assigned to a profile on first sight.
func InitialVersion() Version {
	return Version{v: semver.MustParse("0.1.0")}
}

// ParseVersion parses a semantic version string.
func ParseVersion(s string) (Version, error) {
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return Version{v: v}, nil
}

// Bump returns a new version with the selected component incremented.
func (v Version) Bump(kind BumpKind) Version {
	var next semver.Version
	switch kind {
	case BumpMajor:
		next = v.v.IncMajor()
	case BumpMinor:
		next = v.v.IncMinor()
	default:
		next = v.v.IncPatch()
	}
	return Version{v: &next}
}

// GreaterThan reports whether v is strictly newer than other.
func (v Version) GreaterThan(other Version) bool {
	return v.v.GreaterThan(other.v)
}

// String returns the canonical version string.
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}
