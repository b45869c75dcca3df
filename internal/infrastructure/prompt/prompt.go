// Package prompt implements the build pipeline's decision providers: an
// interactive terminal form set and a fixed-answer provider for CI.
package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/slicerhub/slicerhub/internal/application/ports"
	"github.com/slicerhub/slicerhub/internal/domain/entities"
	"github.com/slicerhub/slicerhub/internal/domain/values"
)

// Terminal asks the operator through huh forms.
type Terminal struct{}

// NewTerminal creates the interactive provider.
func NewTerminal() *Terminal {
	return &Terminal{}
}

// Namespace asks for the repository namespace on first publish.
func (t *Terminal) Namespace(ctx context.Context) (string, error) {
	var namespace string
	err := huh.NewInput().
		Title("Repository namespace").
		Description("Identifies this repository in published manifests.").
		Validate(notEmpty("namespace")).
		Value(&namespace).
		Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(namespace), nil
}

// NewProfile asks for the identity of a newly discovered config file,
// prefilled with values guessed from its path.
func (t *Terminal) NewProfile(ctx context.Context, path string, guess ports.ProfileMeta) (ports.ProfileMeta, error) {
	meta := guess
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("New profile").
				Description(path),
			huh.NewInput().
				Title("Profile name").
				Validate(notEmpty("name")).
				Value(&meta.Name),
			huh.NewInput().
				Title("Slicer").
				Validate(notEmpty("slicer")).
				Value(&meta.Slicer),
			huh.NewInput().
				Title("Profile type").
				Validate(notEmpty("type")).
				Value(&meta.Type),
		),
	)
	if err := form.Run(); err != nil {
		return ports.ProfileMeta{}, err
	}
	return meta, nil
}

// BumpKind asks which version component to bump for a modified profile.
func (t *Terminal) BumpKind(ctx context.Context, profile entities.Profile) (values.BumpKind, error) {
	kind := values.BumpPatch
	err := huh.NewSelect[values.BumpKind]().
		Title(fmt.Sprintf("Version bump for %s (currently %s)", profile.Name, profile.Version)).
		Options(
			huh.NewOption("patch", values.BumpPatch),
			huh.NewOption("minor", values.BumpMinor),
			huh.NewOption("major", values.BumpMajor),
		).
		Value(&kind).
		Run()
	if err != nil {
		return "", err
	}
	return kind, nil
}

// ConfirmRemoval asks whether profiles whose files are gone should be
// dropped from the manifest.
func (t *Terminal) ConfirmRemoval(ctx context.Context, removed []entities.Profile) (bool, error) {
	names := make([]string, len(removed))
	for i, p := range removed {
		names[i] = p.Name
	}
	ok := true
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Remove %d profile(s) with missing files?", len(removed))).
		Description(strings.Join(names, ", ")).
		Affirmative("Remove").
		Negative("Abort").
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s must not be empty", field)
		}
		return nil
	}
}

// Defaults answers every decision without prompting, for --non-interactive
// runs and CI.
type Defaults struct {
	// DefaultNamespace is used when no previous manifest exists.
	DefaultNamespace string
}

// Namespace returns the configured namespace, or "default".
func (d *Defaults) Namespace(ctx context.Context) (string, error) {
	if d.DefaultNamespace != "" {
		return d.DefaultNamespace, nil
	}
	return "default", nil
}

// NewProfile accepts the path-derived guess as-is.
func (d *Defaults) NewProfile(ctx context.Context, path string, guess ports.ProfileMeta) (ports.ProfileMeta, error) {
	if guess.Name == "" {
		return ports.ProfileMeta{}, fmt.Errorf("cannot derive a profile name from %s", path)
	}
	if guess.Slicer == "" {
		guess.Slicer = "unknown"
	}
	if guess.Type == "" {
		guess.Type = "unknown"
	}
	return guess, nil
}

// BumpKind always picks a patch bump.
func (d *Defaults) BumpKind(ctx context.Context, profile entities.Profile) (values.BumpKind, error) {
	return values.BumpPatch, nil
}

// ConfirmRemoval always removes, keeping the manifest consistent with
// the tree.
func (d *Defaults) ConfirmRemoval(ctx context.Context, removed []entities.Profile) (bool, error) {
	return true, nil
}
