package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	appservices "github.com/slicerhub/slicerhub/internal/application/services"
	"github.com/slicerhub/slicerhub/internal/domain/services"
	"github.com/slicerhub/slicerhub/internal/infrastructure/config"
)

var (
	resolveFormat    string
	resolveSourceMap bool
	resolveMaxDepth  int
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <slicer> <type> <path>",
	Short: "Flatten a config's inheritance chain",
	Long: `Resolve the inheritance chain of a config file and print the flattened
configuration. The path is relative to configs/<slicer>/<type>/ in the
repository.

Examples:
  slicerhub resolve prusaslicer filament base/generic-pla.json
  slicerhub resolve orcaslicer printer vendor/mk4.yaml --source-map`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd.Context(), args[0], args[1], args[2])
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveFormat, "format", "yaml", "Output format: yaml, json")
	resolveCmd.Flags().BoolVar(&resolveSourceMap, "source-map", false, "Include per-field source attribution")
	resolveCmd.Flags().IntVar(&resolveMaxDepth, "max-depth", services.DefaultMaxDepth, "Maximum inheritance chain length")
}

func runResolve(ctx context.Context, slicer, configType, rel string) error {
	svc := appservices.NewResolutionService(config.NewStore(repoRoot, slicer, configType))
	res, err := svc.ResolveTarget(ctx, rel, resolveMaxDepth)
	if err != nil {
		return err
	}

	out := map[string]any{
		"resolved_config":   res.Config.ToGo(),
		"inheritance_chain": res.Chain,
		"instantiable":      res.Instantiable,
	}
	if resolveSourceMap {
		out["source_map"] = res.SourceMap
	}

	switch resolveFormat {
	case "json":
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(out)
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", resolveFormat)
	}
	return nil
}
