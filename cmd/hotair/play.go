package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/hot-air/internal/core"
	"github.com/vovakirdan/hot-air/internal/platform/tui"
)

var flagPlayer string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Hot Air in this terminal",
	Long: `Start a game of Hot Air.

Choose a party on the start screen, then drop darts on the other party's
balloons before they float off the top. Popping your own party's balloon
costs a life; letting an opponent escape costs points (or a life at zero).

Controls:
  Left/Right, A/D  - Move the launcher
  Space            - Drop a dart
  Enter, P         - Pause
  Up/Down          - Pick a menu item
  Q                - Quit
  Ctrl+S           - Save a text screenshot

Posts come from the backend named by content.url (or HOTAIR_CONTENT_URL);
without one, the local database is read, and built-in posts are used when
it is empty or missing.

Examples:
  hotair play
  hotair play --name ABC --difficulty easy
  hotair play --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayer, "name", "", "Name recorded with your high scores")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var logOut io.Writer = io.Discard
	if f, logErr := openLogFile(); logErr == nil {
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, "hotair")

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	deps := buildGameDeps(cfg, logger)
	game := deps.newGame(cfg, logger, flagPlayer)

	state, runErr := tui.Run(game, core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	})
	deps.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
	if state.Level > 0 {
		fmt.Printf("Final score: %d (level %d)\n", state.Score, state.Level)
	}
}
