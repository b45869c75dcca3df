// Package services contains application services orchestrating the
// slicerhub domain: cached resolution, manifest publishing and
// repository verification.
package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/slicerhub/slicerhub/internal/application/ports"
	domain "github.com/slicerhub/slicerhub/internal/domain/services"
	"github.com/slicerhub/slicerhub/internal/domain/values"
)

// ResolutionService answers resolution queries over one config store,
// memoizing results keyed by (scope, name).
//
// Cache entries are immutable once computed and tagged with the digests
// of every document in their chain; an entry is dropped as soon as any of
// those digests no longer matches the store. Concurrent first
// computations of the same key are deduplicated with singleflight;
// resolution is a pure function of immutable inputs, so either strategy
// would be correct and this one is the cheaper.
type ResolutionService struct {
	store    ports.ConfigStore
	resolver *domain.Resolver
	group    singleflight.Group

	mu      sync.RWMutex
	entries map[values.ConfigRef]*domain.Resolution
}

// NewResolutionService creates a resolution service over a config store.
func NewResolutionService(store ports.ConfigStore) *ResolutionService {
	s := &ResolutionService{
		store:   store,
		entries: make(map[values.ConfigRef]*domain.Resolution),
	}
	s.resolver = domain.NewResolver(store, s)
	return s
}

// Resolve flattens the config identified by ref, consulting the cache.
func (s *ResolutionService) Resolve(ctx context.Context, ref values.ConfigRef, maxDepth int) (*domain.Resolution, error) {
	key := fmt.Sprintf("%s@%d", ref, maxDepth)
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.resolver.Resolve(ctx, ref, maxDepth)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Resolution), nil
}

// ResolveTarget flattens the config file at rel (relative to the store
// root). The target itself is not cached by path; its ancestors are
// cached by ref as usual.
func (s *ResolutionService) ResolveTarget(ctx context.Context, rel string, maxDepth int) (*domain.Resolution, error) {
	doc, digest, err := s.store.LoadPath(ctx, rel)
	if err != nil {
		return nil, err
	}
	self := values.ConfigRef{Name: rel}
	return s.resolver.ResolveDocument(ctx, doc, digest, self, maxDepth)
}

// Get implements services.Cache. A hit is only returned when every digest
// recorded in the entry still matches the store; otherwise the entry (and
// transitively everything resolved on top of it) is evicted.
func (s *ResolutionService) Get(ctx context.Context, ref values.ConfigRef) (*domain.Resolution, bool) {
	s.mu.RLock()
	res, ok := s.entries[ref]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	for refStr, digest := range res.Digests {
		chainRef, err := values.ParseConfigRef(refStr)
		if err != nil {
			continue
		}
		current, err := s.store.Digest(ctx, chainRef)
		if err != nil || !current.Equals(digest) {
			s.mu.Lock()
			delete(s.entries, ref)
			s.mu.Unlock()
			return nil, false
		}
	}
	return res, true
}

// Put implements services.Cache with atomic per-key replacement.
func (s *ResolutionService) Put(_ context.Context, ref values.ConfigRef, res *domain.Resolution) {
	s.mu.Lock()
	s.entries[ref] = res
	s.mu.Unlock()
}

// Invalidate drops every cached entry. Used after a manifest rebuild.
func (s *ResolutionService) Invalidate() {
	s.mu.Lock()
	s.entries = make(map[values.ConfigRef]*domain.Resolution)
	s.mu.Unlock()
}
