// Package scores submits final game scores without blocking the game loop.
package scores

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hot-air/internal/hotair"
	"github.com/vovakirdan/hot-air/internal/storage"
)

// Request is the JSON body of POST /highscore.
type Request struct {
	User  string `json:"user"`
	Score int    `json:"score"`
	Party string `json:"party"`
}

// Remote posts scores to a Hot Air backend. Each Submit runs in its own
// goroutine; the response is only logged.
type Remote struct {
	baseURL string
	client  *http.Client
	log     *log.Logger
	wg      sync.WaitGroup
}

// NewRemote creates a submitter for the backend at baseURL.
func NewRemote(baseURL string, timeout time.Duration, logger *log.Logger) *Remote {
	if logger == nil {
		logger = log.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     logger,
	}
}

// Submit implements hotair.ScoreSubmitter.
func (r *Remote) Submit(hs hotair.HighScore) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.post(context.Background(), hs); err != nil {
			r.log.Warn("could not save score", "score", hs.Score, "error", err)
			return
		}
		r.log.Info("score saved", "score", hs.Score, "party", string(hs.Party))
	}()
}

func (r *Remote) post(ctx context.Context, hs hotair.HighScore) error {
	body, err := json.Marshal(Request{User: hs.User, Score: hs.Score, Party: string(hs.Party)})
	if err != nil {
		return fmt.Errorf("scores: cannot encode score: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/highscore", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("scores: cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("scores: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("scores: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Wait blocks until every submitted score has been sent or has failed.
func (r *Remote) Wait() {
	r.wg.Wait()
}

// ScoreSaver is the subset of storage.Store used by Local.
type ScoreSaver interface {
	SaveHighScore(ctx context.Context, hs storage.HighScore) (int64, error)
}

// Local writes scores to a local database in the background.
type Local struct {
	store   ScoreSaver
	timeout time.Duration
	log     *log.Logger
	wg      sync.WaitGroup
}

// NewLocal creates a submitter over store.
func NewLocal(store ScoreSaver, logger *log.Logger) *Local {
	if logger == nil {
		logger = log.Default()
	}
	return &Local{store: store, timeout: 5 * time.Second, log: logger}
}

// Submit implements hotair.ScoreSubmitter.
func (l *Local) Submit(hs hotair.HighScore) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()

		_, err := l.store.SaveHighScore(ctx, storage.HighScore{
			User:  hs.User,
			Score: hs.Score,
			Party: string(hs.Party),
		})
		if err != nil {
			l.log.Warn("could not save score", "score", hs.Score, "error", err)
		}
	}()
}

// Wait blocks until every submitted score has been written or has failed.
func (l *Local) Wait() {
	l.wg.Wait()
}

// Discard drops every score.
type Discard struct{}

// Submit implements hotair.ScoreSubmitter.
func (Discard) Submit(hotair.HighScore) {}

var (
	_ hotair.ScoreSubmitter = (*Remote)(nil)
	_ hotair.ScoreSubmitter = (*Local)(nil)
	_ hotair.ScoreSubmitter = Discard{}
)
