package entities

import (
	"fmt"
	"strings"

	"github.com/slicerhub/slicerhub/internal/domain/values"
)

// ConfigNotFoundError indicates a config lookup missed every search path
// in its scope.
type ConfigNotFoundError struct {
	Ref      values.ConfigRef
	Searched []string
}

func (e *ConfigNotFoundError) Error() string {
	if len(e.Searched) == 0 {
		return fmt.Sprintf("config not found: %s", e.Ref)
	}
	return fmt.Sprintf("config not found: %s (searched %s)", e.Ref, strings.Join(e.Searched, ", "))
}

// CircularDependencyError carries the full inheritance cycle, from the
// point of repetition back to itself.
type CircularDependencyError struct {
	Cycle []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency: %s", strings.Join(e.Cycle, " -> "))
}

// InvalidInheritanceError indicates a malformed inherits/from declaration.
type InvalidInheritanceError struct {
	Ref    values.ConfigRef
	Reason string
}

func (e *InvalidInheritanceError) Error() string {
	return fmt.Sprintf("invalid inheritance in %s: %s", e.Ref, e.Reason)
}

// DepthExceededError indicates the traversal depth guard fired.
type DepthExceededError struct {
	Ref      values.ConfigRef
	MaxDepth int
	Chain    []string
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("inheritance depth exceeded resolving %s (max %d): %s",
		e.Ref, e.MaxDepth, strings.Join(e.Chain, " -> "))
}

// ChecksumMismatchError indicates file content no longer matches the
// manifest. Fatal to trusting the whole repository snapshot.
type ChecksumMismatchError struct {
	Path     string
	Expected values.Digest
	Actual   values.Digest
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: manifest has %s, file is %s",
		e.Path, e.Expected, e.Actual)
}

// SignatureInvalidError indicates the manifest signature did not verify.
// Fatal to trusting the whole repository snapshot.
type SignatureInvalidError struct {
	Reason string
}

func (e *SignatureInvalidError) Error() string {
	return fmt.Sprintf("manifest signature invalid: %s", e.Reason)
}
