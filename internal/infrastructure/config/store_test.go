package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slicerhub/slicerhub/internal/domain/entities"
	"github.com/slicerhub/slicerhub/internal/domain/values"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func Test_Store_Load_SystemScope_SearchOrder(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	// Same name in two search locations; the slicer base dir wins.
	writeFile(t, root, "configs/prusaslicer/base/base-pla.json", `{"config": {"name": "from-slicer-base"}}`)
	writeFile(t, root, "configs/prusaslicer/system/base-pla.json", `{"config": {"name": "from-system"}}`)

	store := NewStore(root, "prusaslicer", "filament")
	doc, digest, err := store.Load(context.Background(), values.ConfigRef{Scope: values.ScopeSystem, Name: "base-pla"})
	require.NoError(t, err)

	assert.Equal(t, "from-slicer-base", doc.Name())
	assert.False(t, digest.IsEmpty())
}

func Test_Store_Load_TypeBaseDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "configs/prusaslicer/filament/base/base-pla.yaml", "config:\n  name: typed-base\n")

	store := NewStore(root, "prusaslicer", "filament")
	doc, _, err := store.Load(context.Background(), values.ConfigRef{Scope: values.ScopeSystem, Name: "base-pla"})
	require.NoError(t, err)
	assert.Equal(t, "typed-base", doc.Name())
}

func Test_Store_Load_UserScope_SeparateDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "configs/prusaslicer/base/mine.json", `{"config": {"name": "system-copy"}}`)
	writeFile(t, root, "configs/prusaslicer/user/mine.json", `{"config": {"name": "user-copy"}}`)

	store := NewStore(root, "prusaslicer", "filament")

	userDoc, _, err := store.Load(context.Background(), values.ConfigRef{Scope: values.ScopeUser, Name: "mine"})
	require.NoError(t, err)
	assert.Equal(t, "user-copy", userDoc.Name())

	sysDoc, _, err := store.Load(context.Background(), values.ConfigRef{Scope: values.ScopeSystem, Name: "mine"})
	require.NoError(t, err)
	assert.Equal(t, "system-copy", sysDoc.Name())
}

func Test_Store_Load_NotFound_ListsSearchedPaths(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir(), "prusaslicer", "filament")
	_, _, err := store.Load(context.Background(), values.ConfigRef{Scope: values.ScopeSystem, Name: "ghost"})

	var notFound *entities.ConfigNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.NotEmpty(t, notFound.Searched)
	assert.Contains(t, notFound.Searched, "configs/prusaslicer/base/ghost.json")
	assert.Contains(t, notFound.Searched, "configs/prusaslicer/system/ghost.yaml")
}

func Test_Store_LoadPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "configs/prusaslicer/filament/base/generic-pla.json", `{"config": {"name": "generic-pla"}}`)

	store := NewStore(root, "prusaslicer", "filament")
	doc, digest, err := store.LoadPath(context.Background(), "base/generic-pla.json")
	require.NoError(t, err)
	assert.Equal(t, "generic-pla", doc.Name())
	assert.False(t, digest.IsEmpty())
}

func Test_Store_LoadPath_NotFound(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir(), "prusaslicer", "filament")
	_, _, err := store.LoadPath(context.Background(), "base/nope.json")

	var notFound *entities.ConfigNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func Test_Store_LoadPath_CannotEscapeRoot(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	root := filepath.Join(parent, "repo")
	require.NoError(t, os.MkdirAll(root, 0o755))
	writeFile(t, parent, "outside.json", `{"config": {"name": "outside"}}`)

	store := NewStore(root, "prusaslicer", "filament")
	_, _, err := store.LoadPath(context.Background(), "../../../outside.json")
	assert.Error(t, err)
}

func Test_Store_Digest_MatchesContent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	content := `{"config": {"name": "x"}}`
	writeFile(t, root, "configs/prusaslicer/base/x.json", content)

	store := NewStore(root, "prusaslicer", "filament")
	d, err := store.Digest(context.Background(), values.ConfigRef{Scope: values.ScopeSystem, Name: "x"})
	require.NoError(t, err)
	assert.True(t, d.Equals(values.DigestBytes([]byte(content))))
}
