// Package scan walks a repository's configs directory and diffs it
// against the previously published manifest.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/slicerhub/slicerhub/internal/application/ports"
	"github.com/slicerhub/slicerhub/internal/domain/entities"
	"github.com/slicerhub/slicerhub/internal/domain/values"
)

// Scanner walks configs/ under a repository root.
type Scanner struct {
	root string
}

// NewScanner creates a scanner for a repository directory.
func NewScanner(root string) *Scanner {
	return &Scanner{root: root}
}

// Scan implements ports.Scanner. Dotfiles, markdown and signature files
// are skipped; everything else under configs/ is treated as a config
// file and digested.
func (s *Scanner) Scan(ctx context.Context, previous *entities.Manifest) (*ports.ScanResult, error) {
	configsDir := filepath.Join(s.root, "configs")
	result := &ports.ScanResult{}
	seen := make(map[string]bool)

	err := filepath.WalkDir(configsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != configsDir {
				return fs.SkipDir
			}
			return nil
		}
		if skipFile(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", rel, err)
		}

		entry := ports.ScanEntry{
			Path:   rel,
			Digest: values.DigestBytes(data),
			Status: classify(previous, rel, values.DigestBytes(data)),
		}
		seen[rel] = true
		result.Entries = append(result.Entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result.Entries, func(i, j int) bool {
		return result.Entries[i].Path < result.Entries[j].Path
	})

	if previous != nil {
		for _, p := range previous.Profiles {
			if !seen[p.Path] {
				result.Removed = append(result.Removed, p)
			}
		}
	}
	return result, nil
}

// DigestPath implements ports.ContentAddresser.
func (s *Scanner) DigestPath(ctx context.Context, rel string) (values.Digest, error) {
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return values.Digest{}, err
	}
	return values.DigestBytes(data), nil
}

func classify(previous *entities.Manifest, rel string, digest values.Digest) ports.ScanStatus {
	if previous == nil || previous.ProfileByPath(rel) == nil {
		return ports.ScanAdded
	}
	if stored, ok := previous.Checksum(rel); ok && stored.Equals(digest) {
		return ports.ScanUnchanged
	}
	return ports.ScanModified
}

func skipFile(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, ".md") ||
		strings.HasSuffix(name, ".sig")
}
