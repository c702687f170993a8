// Package server exposes high scores and stored posts over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/hot-air/internal/config"
	"github.com/vovakirdan/hot-air/internal/content"
	"github.com/vovakirdan/hot-air/internal/storage"
)

// Store is the subset of storage.Store the handlers use.
type Store interface {
	Ping(ctx context.Context) error
	SaveHighScore(ctx context.Context, hs storage.HighScore) (int64, error)
	TopHighScores(ctx context.Context, limit int) ([]storage.HighScore, error)
	PostByID(ctx context.Context, id int64) (*storage.Post, error)
	PostsByParty(ctx context.Context, party string, offset, limit int) ([]storage.Post, error)
	AllPosts(ctx context.Context, offset, limit int) ([]storage.Post, error)
	CountPosts(ctx context.Context, party string) (int, error)
	ClearPosts(ctx context.Context) (int64, error)
}

// Fetcher pulls new posts on demand.
type Fetcher interface {
	RunOnce(ctx context.Context) (int, error)
}

// Server holds the handler dependencies.
type Server struct {
	cfg     config.ServerConfig
	store   Store
	posts   *content.StoreSource
	fetcher Fetcher
	log     *log.Logger
	now     func() time.Time
}

// New creates a server. fetcher may be nil, which disables POST /fetch_tweets.
func New(cfg config.ServerConfig, store Store, fetcher Fetcher, logger *log.Logger, seed int64) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 72 * time.Hour
	}
	return &Server{
		cfg:     cfg,
		store:   store,
		posts:   content.NewStoreSource(store, seed),
		fetcher: fetcher,
		log:     logger,
		now:     time.Now,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/highscore", s.handleSaveHighScore).Methods(http.MethodPost)
	r.HandleFunc("/highscores", s.handleHighScores).Methods(http.MethodGet)
	r.HandleFunc("/load_tweets", s.handleLoadPosts).Methods(http.MethodGet)
	r.HandleFunc("/democrats", s.handlePartyPosts("d")).Methods(http.MethodGet)
	r.HandleFunc("/republicans", s.handlePartyPosts("r")).Methods(http.MethodGet)
	r.HandleFunc("/republican", s.handlePartyPosts("r")).Methods(http.MethodGet)
	r.HandleFunc("/all", s.handlePartyPosts("")).Methods(http.MethodGet)
	r.HandleFunc("/tweets/{id:[0-9]+}", s.handlePost).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	admin := r.NewRoute().Subrouter()
	admin.Use(s.requireAdmin)
	admin.HandleFunc("/fetch_tweets", s.handleFetch).Methods(http.MethodPost)
	admin.HandleFunc("/reset", s.handleReset).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handleError(w, NotFoundError{Msg: "Page not found!"})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "address", s.cfg.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
