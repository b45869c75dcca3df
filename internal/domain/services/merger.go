// Package services contains domain services for the slicerhub domain
// model: config merging and inheritance resolution.
package services

import (
	"strings"

	"github.com/slicerhub/slicerhub/internal/domain/entities"
)

// Merger flattens configuration inheritance one level at a time.
//
// Merge semantics, applied per value kind:
//   - scalars are replaced outright
//   - sequences are replaced outright, never concatenated or unioned
//   - mappings are merged key-by-key, recursively, with the same rule
//
// Every field the overlay supplies repoints the source map at the
// overlay's name; fields it leaves untouched keep the base attribution.
type Merger struct{}

// NewMerger creates a new merger service.
func NewMerger() *Merger {
	return &Merger{}
}

// Merge applies overlay on top of a deep copy of base and returns the
// merged tree. sources is updated in place with the overlay's
// contributions, keyed by dotted field path.
func (m *Merger) Merge(base, overlay entities.Value, overlayName string, sources map[string]string) entities.Value {
	return m.merge(base.Copy(), overlay, overlayName, "", sources)
}

// AttributeAll records name as the source of every field in v.
// Used for root configs, whose resolved result is themselves.
func (m *Merger) AttributeAll(v entities.Value, name string, sources map[string]string) {
	m.attribute(v, name, "", sources)
}

func (m *Merger) merge(base, overlay entities.Value, name, prefix string, sources map[string]string) entities.Value {
	if base.Kind() == entities.KindMapping && overlay.Kind() == entities.KindMapping {
		for _, key := range overlay.Keys() {
			ov, _ := overlay.Get(key)
			path := joinPath(prefix, key)
			if bv, ok := base.Get(key); ok &&
				bv.Kind() == entities.KindMapping && ov.Kind() == entities.KindMapping {
				base.Set(key, m.merge(bv, ov, name, path, sources))
				continue
			}
			// Replacement, not a mapping-mapping merge: the overlay owns
			// the whole subtree now, so stale deeper attributions go away.
			clearPrefix(sources, path)
			m.attribute(ov, name, path, sources)
			base.Set(key, ov.Copy())
		}
		return base
	}

	clearPrefix(sources, prefix)
	m.attribute(overlay, name, prefix, sources)
	return overlay.Copy()
}

func (m *Merger) attribute(v entities.Value, name, path string, sources map[string]string) {
	if v.Kind() == entities.KindMapping && v.Len() > 0 {
		for _, key := range v.Keys() {
			child, _ := v.Get(key)
			m.attribute(child, name, joinPath(path, key), sources)
		}
		return
	}
	if path != "" {
		sources[path] = name
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func clearPrefix(sources map[string]string, path string) {
	if path == "" {
		for k := range sources {
			delete(sources, k)
		}
		return
	}
	delete(sources, path)
	for k := range sources {
		if strings.HasPrefix(k, path+".") {
			delete(sources, k)
		}
	}
}
