package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/expr-lang/expr"
	"github.com/spf13/cobra"

	"github.com/slicerhub/slicerhub/internal/domain/entities"
	"github.com/slicerhub/slicerhub/internal/infrastructure/manifest"
)

var (
	listFilter string
	listFormat string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List published profiles",
	Long: `List the profiles in the published manifest.

Filtering:
  --filter takes an expression over the profile fields name, slicer,
  type, version, path and uuid.

  --filter "slicer == 'prusaslicer'"
  --filter "type == 'filament' && name contains 'pla'"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runList(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listFilter, "filter", "", "Filter expression (e.g. \"slicer == 'prusaslicer'\")")
	listCmd.Flags().StringVar(&listFormat, "format", "table", "Output format: table, json")
}

func runList(ctx context.Context) error {
	m, _, err := manifest.NewRepository(repoRoot).Load(ctx)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("repository has no manifest; run 'slicerhub publish' first")
	}

	profiles := m.Profiles
	if listFilter != "" {
		profiles, err = filterProfiles(profiles, listFilter)
		if err != nil {
			return err
		}
	}

	switch listFormat {
	case "json":
		data, err := json.MarshalIndent(profiles, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSLICER\tTYPE\tVERSION\tPATH")
		for _, p := range profiles {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Slicer, p.Type, p.Version, p.Path)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format %q (want table or json)", listFormat)
	}
	return nil
}

// filterProfiles keeps the profiles for which the expression is true.
func filterProfiles(profiles []entities.Profile, filter string) ([]entities.Profile, error) {
	program, err := expr.Compile(filter, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	var kept []entities.Profile
	for _, p := range profiles {
		env := map[string]any{
			"name":    p.Name,
			"slicer":  p.Slicer,
			"type":    p.Type,
			"version": p.Version,
			"path":    p.Path,
			"uuid":    p.UUID,
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return nil, fmt.Errorf("evaluating filter: %w", err)
		}
		if ok, _ := out.(bool); ok {
			kept = append(kept, p)
		}
	}
	return kept, nil
}
