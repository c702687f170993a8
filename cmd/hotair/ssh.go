package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hot-air/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Serve Hot Air over SSH",
	Long: `Start an SSH server; every connection gets its own game.

The SSH user name is recorded with that player's high scores, and all
players share one leaderboard.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.hotair/host_key

Examples:
  hotair ssh                 # Listen on :23234
  hotair ssh --ssh :2222     # Listen on port 2222

Players connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runSSH,
}

func init() {
	sshCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config)")
	sshCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	sshCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes (default from config)")
}

func runSSH(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagSSHAddr != "" {
		cfg.SSH.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.SSH.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.SSH.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}

	logger := newLogger(os.Stderr, "hotair-ssh")
	deps := buildGameDeps(cfg, logger)
	defer deps.Close()

	server, err := tui.NewSSHServer(cfg.SSH, flagFPS, deps.factory(cfg, logger), logger)
	if err != nil {
		logger.Error("could not create server", "error", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting Hot Air SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx); err != nil {
		logger.Error("server error", "error", err)
	}
}
