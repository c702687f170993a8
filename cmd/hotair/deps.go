package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hot-air/internal/config"
	"github.com/vovakirdan/hot-air/internal/content"
	"github.com/vovakirdan/hot-air/internal/core"
	"github.com/vovakirdan/hot-air/internal/hotair"
	"github.com/vovakirdan/hot-air/internal/platform/tui"
	"github.com/vovakirdan/hot-air/internal/scores"
	"github.com/vovakirdan/hot-air/internal/storage"
)

// loadConfig resolves the config file, .env secrets and global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	config.LoadEnv(&cfg, flagEnvFile)

	if flagDBPath != "" {
		cfg.Server.DBPath = flagDBPath
	}
	if flagDifficulty != "" {
		preset := config.ParsePreset(flagDifficulty)
		if preset == "" {
			return cfg, fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
		}
		config.ApplyPreset(&cfg, preset)
	}
	return cfg, nil
}

// newLogger creates a logger writing to w at the --log-level level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
	}
	return logger
}

// openLogFile opens ~/.hotair/hotair.log for appending, so log output never
// lands on the game screen.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot get home directory: %w", err)
	}
	dir := filepath.Join(home, ".hotair")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	return os.OpenFile(filepath.Join(dir, "hotair.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}

// waiter is implemented by score submitters that finish in the background.
type waiter interface {
	Wait()
}

// gameDeps are the collaborators shared by every game a process runs.
type gameDeps struct {
	cache  *content.Cache
	scores hotair.ScoreSubmitter
	store  *storage.Store
}

// buildGameDeps picks the post source and score sink. A configured content
// URL means a remote backend serves both. Otherwise the local database is
// used, and the built-in posts when it cannot be opened.
func buildGameDeps(cfg config.Config, logger *log.Logger) *gameDeps {
	deps := &gameDeps{}

	var source content.Source
	switch {
	case cfg.Content.URL != "":
		source = content.NewHTTPSource(cfg.Content.URL, cfg.Content.Timeout)
		deps.scores = scores.NewRemote(cfg.Content.URL, cfg.Content.Timeout, logger)
		logger.Info("using remote backend", "url", cfg.Content.URL)
	default:
		store, err := storage.Open(cfg.Server.DBPath)
		if err != nil {
			logger.Warn("could not open database, using built-in posts", "error", err)
			source = content.FallbackSource{}
			deps.scores = scores.Discard{}
			break
		}
		deps.store = store
		source = content.NewStoreSource(store, seedOrNow())
		deps.scores = scores.NewLocal(store, logger)
	}

	deps.cache = content.NewCache(source, cfg.Content.Timeout, logger)
	return deps
}

// newGame builds a Hot Air game for user.
func (d *gameDeps) newGame(cfg config.Config, logger *log.Logger, user string) core.Game {
	return hotair.New(hotair.Options{
		Config: cfg,
		Source: d.cache,
		Scores: d.scores,
		Logger: logger,
		User:   user,
	})
}

// Close waits for pending score writes and releases resources.
func (d *gameDeps) Close() {
	d.cache.Close()
	if w, ok := d.scores.(waiter); ok {
		w.Wait()
	}
	if d.store != nil {
		d.store.Close()
	}
}

// factory returns a per-user game constructor for the SSH server.
func (d *gameDeps) factory(cfg config.Config, logger *log.Logger) tui.GameFactory {
	return func(user string) core.Game {
		return d.newGame(cfg, logger, user)
	}
}

func seedOrNow() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
