package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hot-air/internal/social"
	"github.com/vovakirdan/hot-air/internal/storage"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch new posts once",
	Long: `Fetch posts newer than the newest stored one from every configured
list, store them and exit. Needs HOTAIR_SOCIAL_TOKEN.

Examples:
  hotair fetch
  hotair fetch --db ./hotair.db`,
	Args: cobra.NoArgs,
	Run:  runFetch,
}

func runFetch(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Fetcher.Token == "" {
		fmt.Fprintln(os.Stderr, "Error: HOTAIR_SOCIAL_TOKEN is not set")
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Server.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	logger := newLogger(os.Stderr, "fetch")
	client := social.NewClient(cfg.Fetcher.APIBase, cfg.Fetcher.Token, 0)
	fetcher := social.NewFetcher(client, store, cfg.Fetcher, logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	n, err := fetcher.RunOnce(ctx)
	fmt.Printf("Fetched %d new posts\n", n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Some lists failed: %v\n", err)
		store.Close()
		os.Exit(1)
	}
}
