package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slicerhub/slicerhub/internal/application/ports"
	"github.com/slicerhub/slicerhub/internal/domain/entities"
	"github.com/slicerhub/slicerhub/internal/domain/values"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func Test_Scanner_FreshRepository_AllAdded(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "configs/prusaslicer/filament/generic-pla.json", `{"config": {}}`)
	writeFile(t, root, "configs/prusaslicer/printer/mk4.json", `{"config": {}}`)

	result, err := NewScanner(root).Scan(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, result.Entries, 2)
	for _, e := range result.Entries {
		assert.Equal(t, ports.ScanAdded, e.Status)
		assert.False(t, e.Digest.IsEmpty())
	}
	// Sorted by path for deterministic manifests.
	assert.Equal(t, "configs/prusaslicer/filament/generic-pla.json", result.Entries[0].Path)
	assert.Equal(t, "configs/prusaslicer/printer/mk4.json", result.Entries[1].Path)
	assert.Empty(t, result.Removed)
}

func Test_Scanner_ClassifiesAgainstPrevious(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "configs/ps/filament/unchanged.json", "same")
	writeFile(t, root, "configs/ps/filament/modified.json", "new content")
	writeFile(t, root, "configs/ps/filament/added.json", "brand new")

	now := time.Now()
	prev := entities.NewManifest("ns")
	for _, name := range []string{"unchanged", "modified", "gone"} {
		p := entities.NewProfile(name, "ps", "filament", "configs/ps/filament/"+name+".json", now)
		prev.Profiles = append(prev.Profiles, p)
	}
	prev.Checksums["configs/ps/filament/unchanged.json"] = values.DigestBytes([]byte("same")).String()
	prev.Checksums["configs/ps/filament/modified.json"] = values.DigestBytes([]byte("old content")).String()
	prev.Checksums["configs/ps/filament/gone.json"] = values.DigestBytes([]byte("gone")).String()

	result, err := NewScanner(root).Scan(context.Background(), prev)
	require.NoError(t, err)

	byPath := make(map[string]ports.ScanStatus)
	for _, e := range result.Entries {
		byPath[e.Path] = e.Status
	}
	assert.Equal(t, ports.ScanUnchanged, byPath["configs/ps/filament/unchanged.json"])
	assert.Equal(t, ports.ScanModified, byPath["configs/ps/filament/modified.json"])
	assert.Equal(t, ports.ScanAdded, byPath["configs/ps/filament/added.json"])

	require.Len(t, result.Removed, 1)
	assert.Equal(t, "gone", result.Removed[0].Name)
}

func Test_Scanner_SkipsNonConfigFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "configs/ps/filament/real.json", "{}")
	writeFile(t, root, "configs/ps/filament/README.md", "docs")
	writeFile(t, root, "configs/ps/filament/.hidden", "secret")
	writeFile(t, root, "configs/ps/.git/objects/blob", "binary")
	writeFile(t, root, "configs/ps/filament/real.json.sig", "sig bytes")

	result, err := NewScanner(root).Scan(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, result.Entries, 1)
	assert.Equal(t, "configs/ps/filament/real.json", result.Entries[0].Path)
}

func Test_Scanner_DigestPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "configs/ps/filament/x.json", "content")

	d, err := NewScanner(root).DigestPath(context.Background(), "configs/ps/filament/x.json")
	require.NoError(t, err)
	assert.True(t, d.Equals(values.DigestBytes([]byte("content"))))

	_, err = NewScanner(root).DigestPath(context.Background(), "configs/ps/filament/missing.json")
	assert.Error(t, err)
}
