package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/securoserv/securovault/internal/client/cli"
	"github.com/securoserv/securovault/internal/client/config"
	"github.com/securoserv/securovault/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "securovault",
	Short: "SecuroVault is an encrypted file vault client",
	Long: `An interactive client for the SecuroVault encrypted file storage service.
Files are encrypted server-side; this client handles login, uploads,
listing, downloads and plan upgrades.`,
	// -b/-d/-c are parsed by the config loader, not cobra
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg := config.LoadConfig()
		log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		})))

		app, err := cli.NewApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		app.Run(ctx)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
