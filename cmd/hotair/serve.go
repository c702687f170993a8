package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hot-air/internal/server"
	"github.com/vovakirdan/hot-air/internal/social"
	"github.com/vovakirdan/hot-air/internal/storage"
)

var (
	flagAddr    string
	flagNoFetch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP backend",
	Long: `Serve high scores and stored posts over HTTP and keep fetching new
posts from the configured social lists.

Secrets are read from the environment (or --env-file):
  HOTAIR_JWT_SECRET            - signs admin tokens
  HOTAIR_ADMIN_PASSWORD_HASH   - bcrypt hash of the admin password
  HOTAIR_SOCIAL_TOKEN          - bearer token for the social API
  HOTAIR_DATABASE_URL          - overrides server.db_path

Examples:
  hotair serve
  hotair serve --addr :8080 --no-fetch
  hotair serve --db postgres://hotair@localhost/hotair?sslmode=disable`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().BoolVar(&flagNoFetch, "no-fetch", false, "Do not run the periodic post fetch")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagAddr != "" {
		cfg.Server.Address = flagAddr
	}

	logger := newLogger(os.Stderr, "hotair-http")

	store, err := storage.Open(cfg.Server.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("database ready", "driver", store.Driver())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var fetcher *social.Fetcher
	if cfg.Fetcher.Enabled && cfg.Fetcher.Token != "" {
		client := social.NewClient(cfg.Fetcher.APIBase, cfg.Fetcher.Token, 0)
		fetcher = social.NewFetcher(client, store, cfg.Fetcher, logger.WithPrefix("fetch"))
		if !flagNoFetch {
			go fetcher.Run(ctx) //nolint:errcheck // returns ctx.Err() on shutdown
		}
	} else {
		logger.Warn("post fetching disabled", "enabled", cfg.Fetcher.Enabled, "token_set", cfg.Fetcher.Token != "")
	}

	var f server.Fetcher
	if fetcher != nil {
		f = fetcher
	}
	srv := server.New(cfg.Server, store, f, logger, seedOrNow())
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server error", "error", err)
	}
}
