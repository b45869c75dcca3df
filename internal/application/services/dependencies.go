package services

import (
	"context"

	"github.com/slicerhub/slicerhub/internal/domain/values"
)

// DependencyInfo describes one config in an inheritance chain.
type DependencyInfo struct {
	Name     string `json:"name"`
	Scope    string `json:"scope,omitempty"`
	Inherits string `json:"inherits,omitempty"`
	From     string `json:"from,omitempty"`
}

// DependencyNode is a node in the tree rendering of a chain.
type DependencyNode struct {
	Name     string            `json:"name"`
	Children []*DependencyNode `json:"children"`
}

// DependencyReport answers a dependency query for one target config.
type DependencyReport struct {
	Target          DependencyInfo   `json:"target"`
	Dependencies    []DependencyInfo `json:"dependencies"`
	ResolutionOrder []string         `json:"resolution_order"`
	Tree            *DependencyNode  `json:"dependency_tree,omitempty"`
	Metadata        map[string]any   `json:"metadata,omitempty"`
}

// Dependencies computes the inheritance chain of the config file at rel.
// The chain is validated by a full resolution first, so cycles, missing
// parents and runaway depth surface as the usual typed errors.
func (s *ResolutionService) Dependencies(ctx context.Context, rel string, maxDepth int, withTree, withMetadata bool) (*DependencyReport, error) {
	doc, digest, err := s.store.LoadPath(ctx, rel)
	if err != nil {
		return nil, err
	}
	selfRef := values.ConfigRef{Name: rel}
	res, err := s.resolver.ResolveDocument(ctx, doc, digest, selfRef, maxDepth)
	if err != nil {
		return nil, err
	}

	targetName := res.Chain[len(res.Chain)-1]
	target := DependencyInfo{Name: targetName}
	if parentRef, has, _ := doc.ParentRef(selfRef); has {
		target.Inherits = parentRef.Name
		target.From = string(parentRef.Scope)
	}

	// Walk up the (already validated, acyclic) chain collecting each
	// ancestor's own declaration. Collected leaf-first, reported
	// root-first.
	var deps []DependencyInfo
	cur, curRef := doc, selfRef
	for range res.Chain {
		parentRef, has, err := cur.ParentRef(curRef)
		if !has || err != nil {
			break
		}
		parent, _, err := s.store.Load(ctx, parentRef)
		if err != nil {
			return nil, err
		}
		name := parent.Name()
		if name == "" {
			name = parentRef.Name
		}
		info := DependencyInfo{Name: name, Scope: string(parentRef.Scope)}
		if grandRef, has, _ := parent.ParentRef(parentRef); has {
			info.Inherits = grandRef.Name
			info.From = string(grandRef.Scope)
		}
		deps = append(deps, info)
		cur, curRef = parent, parentRef
	}

	report := &DependencyReport{
		Target:          target,
		ResolutionOrder: res.Chain,
	}

	if withTree {
		root := &DependencyNode{Name: targetName, Children: []*DependencyNode{}}
		node := root
		for _, dep := range deps {
			child := &DependencyNode{Name: dep.Name, Children: []*DependencyNode{}}
			node.Children = append(node.Children, child)
			node = child
		}
		report.Tree = root
	}

	// Reverse to root-first to match the resolution order.
	report.Dependencies = make([]DependencyInfo, 0, len(deps))
	for i := len(deps) - 1; i >= 0; i-- {
		report.Dependencies = append(report.Dependencies, deps[i])
	}

	if withMetadata {
		report.Metadata = doc.Metadata
	}
	return report, nil
}
