package values

import (
	"fmt"
	"strings"
)

// Scope identifies where an inherited base configuration is looked up.
type Scope string

const (
	ScopeSystem Scope = "system"
	ScopeVendor Scope = "vendor"
	ScopeUser   Scope = "user"
)

// ParseScope validates a scope declared in a config's "from" field.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeSystem, ScopeVendor, ScopeUser:
		return Scope(s), nil
	}
	return "", fmt.Errorf("invalid scope %q (expected system, vendor or user)", s)
}

// ConfigRef is the composite lookup key for a configuration: a base name
// within a scope. References between configs are always by ref, never by
// direct pointer into a file tree.
type ConfigRef struct {
	Scope Scope
	Name  string
}

// String renders the ref as "scope/name". Refs for targets addressed by
// file path rather than scope lookup have no scope and render as the bare
// name.
func (r ConfigRef) String() string {
	if r.Scope == "" {
		return r.Name
	}
	return string(r.Scope) + "/" + r.Name
}

// ParseConfigRef parses the "scope/name" form produced by String.
func ParseConfigRef(s string) (ConfigRef, error) {
	scope, name, ok := strings.Cut(s, "/")
	if !ok {
		return ConfigRef{}, fmt.Errorf("invalid config ref %q", s)
	}
	parsed, err := ParseScope(scope)
	if err != nil {
		return ConfigRef{}, fmt.Errorf("invalid config ref %q: %w", s, err)
	}
	if name == "" {
		return ConfigRef{}, fmt.Errorf("invalid config ref %q: empty name", s)
	}
	return ConfigRef{Scope: parsed, Name: name}, nil
}
