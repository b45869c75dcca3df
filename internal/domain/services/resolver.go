package services

import (
	"context"

	"github.com/slicerhub/slicerhub/internal/domain/entities"
	"github.com/slicerhub/slicerhub/internal/domain/values"
)

// DefaultMaxDepth bounds inheritance traversal. The explicit cycle check
// catches true cycles immediately; the depth guard is the last line
// against otherwise malformed input.
const DefaultMaxDepth = 32

// Store loads config documents by scope lookup.
type Store interface {
	Load(ctx context.Context, ref values.ConfigRef) (*entities.Document, values.Digest, error)
}

// Cache memoizes resolutions across calls. Entries are immutable once
// stored; implementations decide validity (slicerhub's cache compares the
// chain digests against the current store).
type Cache interface {
	Get(ctx context.Context, ref values.ConfigRef) (*Resolution, bool)
	Put(ctx context.Context, ref values.ConfigRef, res *Resolution)
}

// Resolution is the outcome of flattening an inheritance chain.
type Resolution struct {
	// Config is the fully merged tree.
	Config entities.Value
	// SourceMap attributes each dotted field path to the name of the
	// config in the chain that last set it.
	SourceMap map[string]string
	// Chain lists config names root to leaf.
	Chain []string
	// Digests records the digest of every document consulted, keyed by
	// ref string. A later digest change anywhere in the chain invalidates
	// this resolution.
	Digests map[string]values.Digest
	// Instantiable is false for base configs marked instantiation: false.
	// They still resolve and still serve as parents.
	Instantiable bool
}

// Resolver walks inheritance chains depth-first, discovering the root by
// walking up, then merging back down. It fails with typed errors: config
// misses are ConfigNotFoundError, cycles are CircularDependencyError,
// malformed declarations are InvalidInheritanceError and runaway chains
// are DepthExceededError.
type Resolver struct {
	store  Store
	cache  Cache
	merger *Merger
}

// NewResolver creates a resolver over a config store. cache may be nil.
func NewResolver(store Store, cache Cache) *Resolver {
	return &Resolver{
		store:  store,
		cache:  cache,
		merger: NewMerger(),
	}
}

// Resolve flattens the config identified by ref.
func (r *Resolver) Resolve(ctx context.Context, ref values.ConfigRef, maxDepth int) (*Resolution, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return r.resolve(ctx, ref, maxDepth, 0, make(map[values.ConfigRef]bool), nil)
}

// ResolveDocument flattens a document loaded outside the scope lookup,
// such as an API target addressed by file path. self is used for error
// reporting only and is never cached.
func (r *Resolver) ResolveDocument(ctx context.Context, doc *entities.Document, digest values.Digest, self values.ConfigRef, maxDepth int) (*Resolution, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return r.resolveDocument(ctx, doc, digest, self, maxDepth, 0, make(map[values.ConfigRef]bool), nil)
}

func (r *Resolver) resolve(ctx context.Context, ref values.ConfigRef, maxDepth, depth int, visiting map[values.ConfigRef]bool, stack []string) (*Resolution, error) {
	if visiting[ref] {
		return nil, &entities.CircularDependencyError{Cycle: cycleFrom(stack, ref.String())}
	}
	if depth > maxDepth {
		return nil, &entities.DepthExceededError{
			Ref:      ref,
			MaxDepth: maxDepth,
			Chain:    append([]string(nil), stack...),
		}
	}
	if r.cache != nil {
		if res, ok := r.cache.Get(ctx, ref); ok {
			return res, nil
		}
	}

	doc, digest, err := r.store.Load(ctx, ref)
	if err != nil {
		return nil, err
	}

	res, err := r.resolveDocument(ctx, doc, digest, ref, maxDepth, depth, visiting, stack)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Put(ctx, ref, res)
	}
	return res, nil
}

func (r *Resolver) resolveDocument(ctx context.Context, doc *entities.Document, digest values.Digest, self values.ConfigRef, maxDepth, depth int, visiting map[values.ConfigRef]bool, stack []string) (*Resolution, error) {
	name := doc.Name()
	if name == "" {
		name = self.Name
	}

	parentRef, hasParent, err := doc.ParentRef(self)
	if err != nil {
		return nil, err
	}

	// inherits and from are resolved away; they never appear in merged
	// output.
	own := doc.Config.Copy()
	own.Delete("inherits")
	own.Delete("from")

	if !hasParent {
		sources := make(map[string]string)
		r.merger.AttributeAll(own, name, sources)
		return &Resolution{
			Config:       own,
			SourceMap:    sources,
			Chain:        []string{name},
			Digests:      map[string]values.Digest{self.String(): digest},
			Instantiable: doc.Instantiable(),
		}, nil
	}

	visiting[self] = true
	stack = append(stack, self.String())
	parent, err := r.resolve(ctx, parentRef, maxDepth, depth+1, visiting, stack)
	delete(visiting, self)
	if err != nil {
		return nil, err
	}

	sources := make(map[string]string, len(parent.SourceMap))
	for k, v := range parent.SourceMap {
		sources[k] = v
	}
	merged := r.merger.Merge(parent.Config, own, name, sources)

	digests := make(map[string]values.Digest, len(parent.Digests)+1)
	for k, v := range parent.Digests {
		digests[k] = v
	}
	digests[self.String()] = digest

	chain := make([]string, 0, len(parent.Chain)+1)
	chain = append(chain, parent.Chain...)
	chain = append(chain, name)

	return &Resolution{
		Config:       merged,
		SourceMap:    sources,
		Chain:        chain,
		Digests:      digests,
		Instantiable: doc.Instantiable(),
	}, nil
}

// cycleFrom slices the traversal stack from the first occurrence of ref
// back to itself.
func cycleFrom(stack []string, ref string) []string {
	for i, s := range stack {
		if s == ref {
			cycle := append([]string(nil), stack[i:]...)
			return append(cycle, ref)
		}
	}
	return []string{ref, ref}
}
