// Package main is the entry point for the forge CLI
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/charforge/internal/config"
)

var (
	envFile string
	forge   *app
)

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "Character creation and progression",
	Long: `forge walks a character through creation step by step, validating every
choice against a versioned ruleset, and levels finalized characters up.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if forge != nil {
			forge.close()
		}
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading CHARFORGE_* variables")

	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(characterCmd)
	rootCmd.AddCommand(rulesetsCmd)
	rootCmd.AddCommand(contextCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	forge, err = newApp(cmd.Context(), cfg)
	return err
}

func setupLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Log.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
