package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/slicerhub/slicerhub/internal/application/ports"
	"github.com/slicerhub/slicerhub/internal/application/services"
	"github.com/slicerhub/slicerhub/internal/infrastructure/manifest"
	"github.com/slicerhub/slicerhub/internal/infrastructure/prompt"
	"github.com/slicerhub/slicerhub/internal/infrastructure/scan"
	"github.com/slicerhub/slicerhub/internal/infrastructure/signing"
)

var (
	signingKeyPath string
	nonInteractive bool
	namespaceFlag  string
)

// publishCmd represents the publish command
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Scan the repository and publish a signed manifest",
	Long: `Scan the configs directory, diff it against the previously published
manifest, assign versions (bumping modified profiles, preserving unchanged
ones), and write a freshly signed manifest.json and manifest.json.sig.

New profiles and version bumps are confirmed interactively unless
--non-interactive is set, in which case path-derived defaults and patch
bumps are used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPublish(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringVarP(&signingKeyPath, "key", "k", "", "path to the ed25519 signing key (or SLICERHUB_KEY)")
	publishCmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "answer all prompts with defaults")
	publishCmd.Flags().StringVar(&namespaceFlag, "namespace", "", "repository namespace for a first publish")
}

func runPublish(ctx context.Context) error {
	keyPath := signingKeyPath
	if keyPath == "" {
		keyPath = viper.GetString("key")
	}
	if keyPath == "" {
		return fmt.Errorf("a signing key is required (--key or SLICERHUB_KEY)")
	}

	signer, err := signing.LoadSigner(keyPath)
	if err != nil {
		return err
	}

	var decisions ports.DecisionProvider
	if nonInteractive {
		decisions = &prompt.Defaults{DefaultNamespace: namespaceFlag}
	} else {
		decisions = prompt.NewTerminal()
	}

	svc := services.NewPublishService(
		scan.NewScanner(repoRoot),
		manifest.NewRepository(repoRoot),
		signer,
		decisions,
	)

	m, err := svc.Publish(ctx)
	if err != nil {
		return err
	}

	slog.Info("manifest published",
		"namespace", m.Namespace,
		"profiles", len(m.Profiles),
		"files", len(m.Checksums),
	)
	return nil
}
