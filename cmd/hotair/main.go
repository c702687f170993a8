// hotair is a terminal balloon-popping game about political hot air, plus
// the backend that feeds it posts and keeps its high scores.
//
// Usage:
//
//	hotair play     - Play in this terminal
//	hotair ssh      - Serve the game over SSH
//	hotair serve    - Run the HTTP backend and the post fetch job
//	hotair fetch    - Fetch new posts once
//	hotair scores   - Show high scores
//
// Global flags:
//
//	--config <path>      - Custom config YAML
//	--db <dsn>           - Database path or postgres:// URL
//	--fps <rate>         - Tick rate (default: 60)
//	--seed <value>       - RNG seed for reproducible gameplay
//	--difficulty <name>  - easy, normal, hard or fixed
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig     string
	flagEnvFile    string
	flagDBPath     string
	flagFPS        int
	flagSeed       int64
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hotair",
	Short: "Hot Air - pop the politicians' balloons",
	Long: `Hot Air is a terminal arcade game. Balloons carrying real posts by
members of Congress float up the screen; pick a party and pop the other
side's hot air before it escapes.

Available commands:
  play     - Play in this terminal
  ssh      - Serve the game over SSH
  serve    - Run the HTTP backend and the post fetch job
  fetch    - Fetch new posts once
  scores   - Show high scores

Examples:
  hotair play
  hotair play --difficulty hard
  hotair serve --db postgres://hotair@localhost/hotair?sslmode=disable
  hotair ssh --ssh :2222
  hotair scores`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Path to .env file with secrets")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Database path or postgres:// URL (default from config)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(scoresCmd)
}
