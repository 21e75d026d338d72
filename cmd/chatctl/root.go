package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gwi.com/windtone-assistant/internal/app"
	"gwi.com/windtone-assistant/internal/config"
)

var (
	verbose        bool
	storageBackend string
	databaseURL    string
)

var rootCmd = &cobra.Command{
	Use:   "chatctl",
	Short: "Talk to the assistant and manage the stored conversation",
	Long: `chatctl drives the same conversation the web UI uses.

Quick Start:
  chatctl send "hello"                     # Ask something and print the reply
  chatctl send --file notes.txt            # Send a file without text
  chatctl history                          # Show the conversation
  chatctl export --format yaml             # Dump the conversation
  chatctl speak <turn-id> --out reply.mp3  # Save a reply as audio`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		if !verbose {
			log.SetOutput(io.Discard)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storageBackend, "storage", "", "Storage backend override (sqlite, badger, bolt)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "db", "", "Database path override")
}

// openApp loads configuration the way the server does, applying flag overrides.
func openApp(ctx context.Context) (*app.App, error) {
	if err := config.LoadConfig(); err != nil {
		return nil, err
	}
	cfg := config.AppConfig
	if storageBackend != "" {
		cfg.StorageBackend = storageBackend
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	return app.New(ctx, cfg)
}
