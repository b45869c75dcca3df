package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/slicerhub/slicerhub/internal/application/services"
	"github.com/slicerhub/slicerhub/internal/infrastructure/manifest"
	"github.com/slicerhub/slicerhub/internal/infrastructure/scan"
	"github.com/slicerhub/slicerhub/internal/infrastructure/signing"
	"github.com/slicerhub/slicerhub/internal/infrastructure/validation"
)

var publicKeyPath string

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify repository integrity against its signed manifest",
	Long: `Check the manifest signature, validate the manifest against its schema,
and recompute the checksum of every published file. Any failure means the
repository snapshot as a whole must not be trusted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runVerify(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&publicKeyPath, "pubkey", "", "path to the ed25519 public key (or SLICERHUB_PUBKEY)")
}

func runVerify(ctx context.Context) error {
	keyPath := publicKeyPath
	if keyPath == "" {
		keyPath = viper.GetString("pubkey")
	}
	if keyPath == "" {
		return fmt.Errorf("a public key is required (--pubkey or SLICERHUB_PUBKEY)")
	}

	verifier, err := signing.LoadVerifier(keyPath)
	if err != nil {
		return err
	}

	svc := services.NewVerifyService(
		manifest.NewRepository(repoRoot),
		verifier,
		validation.NewManifestSchema(),
		scan.NewScanner(repoRoot),
	)

	m, err := svc.Verify(ctx)
	if err != nil {
		return err
	}

	slog.Info("repository verified",
		"namespace", m.Namespace,
		"profiles", len(m.Profiles),
		"files", len(m.Checksums),
	)
	fmt.Println("OK")
	return nil
}
