// Package config implements the filesystem config store with per-scope
// search paths.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"

	"github.com/slicerhub/slicerhub/internal/domain/entities"
	"github.com/slicerhub/slicerhub/internal/domain/values"
)

// extensions tried, in order, for scope lookups by base name.
var extensions = []string{".json", ".yaml", ".yml"}

// Store reads config documents for one (slicer, type) pair out of a
// repository tree laid out as configs/<slicer>/<type>/<file>.
//
// Scope search paths, relative to the repository root:
//
//	system, vendor:  configs/<slicer>/base/<name>
//	                 configs/<slicer>/<type>/base/<name>
//	                 configs/<slicer>/system/<name>
//	user:            configs/<slicer>/user/<name>
//	                 configs/<slicer>/<type>/user/<name>
type Store struct {
	root       string
	slicer     string
	configType string
}

// NewStore creates a store rooted at a repository directory.
func NewStore(root, slicer, configType string) *Store {
	return &Store{root: root, slicer: slicer, configType: configType}
}

func (s *Store) searchPaths(ref values.ConfigRef) []string {
	var dirs []string
	switch ref.Scope {
	case values.ScopeUser:
		dirs = []string{
			path.Join("configs", s.slicer, "user"),
			path.Join("configs", s.slicer, s.configType, "user"),
		}
	default: // system and vendor share the slicer-defined base dirs
		dirs = []string{
			path.Join("configs", s.slicer, "base"),
			path.Join("configs", s.slicer, s.configType, "base"),
			path.Join("configs", s.slicer, "system"),
		}
	}
	paths := make([]string, 0, len(dirs)*len(extensions))
	for _, dir := range dirs {
		for _, ext := range extensions {
			paths = append(paths, path.Join(dir, ref.Name+ext))
		}
	}
	return paths
}

// Load resolves a ref through the scope search paths.
func (s *Store) Load(ctx context.Context, ref values.ConfigRef) (*entities.Document, values.Digest, error) {
	data, _, err := s.find(ref)
	if err != nil {
		return nil, values.Digest{}, err
	}
	doc, err := entities.ParseDocument(data)
	if err != nil {
		return nil, values.Digest{}, fmt.Errorf("%s: %w", ref, err)
	}
	return doc, values.DigestBytes(data), nil
}

// Digest returns the current content digest for a ref without parsing.
func (s *Store) Digest(ctx context.Context, ref values.ConfigRef) (values.Digest, error) {
	data, _, err := s.find(ref)
	if err != nil {
		return values.Digest{}, err
	}
	return values.DigestBytes(data), nil
}

// LoadPath loads a document by path relative to this store's type
// directory, as addressed by the read API.
func (s *Store) LoadPath(ctx context.Context, rel string) (*entities.Document, values.Digest, error) {
	full := path.Join("configs", s.slicer, s.configType, rel)
	data, err := s.read(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, values.Digest{}, &entities.ConfigNotFoundError{
				Ref:      values.ConfigRef{Name: rel},
				Searched: []string{full},
			}
		}
		return nil, values.Digest{}, err
	}
	doc, err := entities.ParseDocument(data)
	if err != nil {
		return nil, values.Digest{}, fmt.Errorf("%s: %w", full, err)
	}
	return doc, values.DigestBytes(data), nil
}

func (s *Store) find(ref values.ConfigRef) ([]byte, string, error) {
	searched := s.searchPaths(ref)
	for _, rel := range searched {
		data, err := s.read(rel)
		if err == nil {
			return data, rel, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", err
		}
	}
	return nil, "", &entities.ConfigNotFoundError{Ref: ref, Searched: searched}
}

// read opens files through os.Root so request-supplied paths cannot
// escape the repository.
func (s *Store) read(rel string) ([]byte, error) {
	root, err := os.OpenRoot(s.root)
	if err != nil {
		return nil, fmt.Errorf("opening repository root: %w", err)
	}
	defer root.Close()

	file, err := root.Open(rel)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}
