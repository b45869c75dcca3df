package entities

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/slicerhub/slicerhub/internal/domain/values"
)

// Document is one parsed slicer config file. The metadata section is
// opaque to the resolver; only the config tree participates in
// inheritance and merging.
type Document struct {
	Metadata map[string]any
	Config   Value
}

// rawDocument mirrors the two-section on-disk layout. Profile files are
// JSON or YAML; YAML being a superset, one decoder covers both.
type rawDocument struct {
	Metadata map[string]any `yaml:"metadata"`
	Config   map[string]any `yaml:"config"`
}

// ParseDocument decodes a config document from raw bytes.
func ParseDocument(data []byte) (*Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config document: %w", err)
	}
	if raw.Config == nil {
		return nil, fmt.Errorf("config document has no config section")
	}
	return &Document{
		Metadata: raw.Metadata,
		Config:   FromGo(raw.Config),
	}, nil
}

// Name returns the display name declared in the config section.
func (d *Document) Name() string {
	if v, ok := d.Config.Get("name"); ok && v.Kind() == KindScalar {
		if s, ok := v.ScalarValue().(string); ok {
			return s
		}
	}
	return ""
}

// Inherits returns the declared parent base name, if any.
func (d *Document) Inherits() (string, bool) {
	v, ok := d.Config.Get("inherits")
	if !ok || v.Kind() != KindScalar {
		return "", false
	}
	s, ok := v.ScalarValue().(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// ParentRef resolves the document's inherits/from declaration into a
// config reference. Returns ok=false for root documents. A present but
// malformed declaration yields an InvalidInheritanceError.
func (d *Document) ParentRef(self values.ConfigRef) (values.ConfigRef, bool, error) {
	name, ok := d.Inherits()
	if !ok {
		if _, declared := d.Config.Get("inherits"); declared {
			return values.ConfigRef{}, false, &InvalidInheritanceError{
				Ref:    self,
				Reason: "inherits must be a non-empty string",
			}
		}
		return values.ConfigRef{}, false, nil
	}

	// "from" defaults to the system scope when omitted.
	scope := values.ScopeSystem
	if v, declared := d.Config.Get("from"); declared {
		s, isString := v.ScalarValue().(string)
		if v.Kind() != KindScalar || !isString {
			return values.ConfigRef{}, false, &InvalidInheritanceError{
				Ref:    self,
				Reason: "from must be a string scope",
			}
		}
		parsed, err := values.ParseScope(s)
		if err != nil {
			return values.ConfigRef{}, false, &InvalidInheritanceError{Ref: self, Reason: err.Error()}
		}
		scope = parsed
	}
	return values.ConfigRef{Scope: scope, Name: name}, true, nil
}

// Instantiable reports whether this config may be offered to end users
// directly. Base configs set instantiation: false; they still resolve.
func (d *Document) Instantiable() bool {
	v, ok := d.Config.Get("instantiation")
	if !ok || v.Kind() != KindScalar {
		return true
	}
	switch t := v.ScalarValue().(type) {
	case bool:
		return t
	case string:
		return t != "false" && t != "0"
	}
	return true
}
