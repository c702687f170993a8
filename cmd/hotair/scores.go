package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/hot-air/internal/hotair"
	"github.com/vovakirdan/hot-air/internal/platform/tui"
	"github.com/vovakirdan/hot-air/internal/storage"
)

var (
	flagPlain bool
	flagParty string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Browse the high score tables by party, or print them with --plain.

Examples:
  hotair scores
  hotair scores --plain
  hotair scores --plain --party r`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print the top 10 instead of opening the scoreboard")
	scoresCmd.Flags().StringVar(&flagParty, "party", "", "Only show one party (d or r) with --plain")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Server.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if !flagPlain {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	printScores(store)
}

func printScores(store *storage.Store) {
	ctx := context.Background()

	var list []storage.HighScore
	var err error
	title := "All Players"
	if flagParty != "" {
		party, perr := hotair.ParseParty(flagParty)
		if perr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", perr)
			return
		}
		title = party.Name()
		list, err = store.TopHighScoresByParty(ctx, string(party), 10)
	} else {
		list, err = store.TopHighScores(ctx, 10)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("High Scores - %s\n\n", title)
	if len(list) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'hotair play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-10s  %-10s  %-10s  %s\n", "Rank", "Player", "Score", "Party", "Date")
	fmt.Printf("  %-4s  %-10s  %-10s  %-10s  %s\n", "----", "------", "-----", "-----", "----")
	for i, hs := range list {
		name := hs.Party
		if p, perr := hotair.ParseParty(hs.Party); perr == nil {
			name = p.Name()
		}
		fmt.Printf("  %-4d  %-10s  %-10d  %-10s  %s\n", i+1, hs.User, hs.Score, name, hs.CreatedAt.Format("2006-01-02 15:04"))
	}

	if best, err := store.BestScore(ctx); err == nil {
		fmt.Printf("\nBest: %d\n", best)
	}
}
