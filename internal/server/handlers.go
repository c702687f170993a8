package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/vovakirdan/hot-air/internal/content"
	"github.com/vovakirdan/hot-air/internal/hotair"
	"github.com/vovakirdan/hot-air/internal/storage"
)

const (
	defaultPostLimit = 100
	maxPostLimit     = 500
	maxUserLen       = 32
)

type highScoreRequest struct {
	User  string `json:"user"`
	Score int    `json:"score"`
	Party string `json:"party"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// queryInt reads a non-negative integer query parameter, falling back to def
// when it is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, BadRequestError{Msg: "Invalid " + name + "."}
	}
	return n, nil
}

func pageParams(r *http.Request) (start, limit int, err error) {
	if start, err = queryInt(r, "startkey", 0); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(r, "limit", defaultPostLimit); err != nil {
		return 0, 0, err
	}
	if limit > maxPostLimit {
		limit = maxPostLimit
	}
	return start, limit, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.log.Error("health check failed", "error", err)
		handleError(w, InternalServerError{Msg: "Database unavailable."})
		return
	}
	handleSuccess(w, map[string]string{"status": "ok"})
}

func (s *Server) handleSaveHighScore(w http.ResponseWriter, r *http.Request) {
	var req highScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, BadRequestError{Msg: "Invalid request."})
		return
	}

	req.User = strings.TrimSpace(req.User)
	if req.User == "" {
		req.User = hotair.DefaultUser
	}
	if len(req.User) > maxUserLen {
		handleError(w, BadRequestError{Msg: "User name is too long."})
		return
	}
	party, err := hotair.ParseParty(req.Party)
	if err != nil {
		handleError(w, BadRequestError{Msg: "Party must be d or r."})
		return
	}

	id, err := s.store.SaveHighScore(r.Context(), storage.HighScore{
		User:  req.User,
		Score: req.Score,
		Party: string(party),
	})
	if err != nil {
		s.log.Error("could not save high score", "error", err)
		handleError(w, InternalServerError{Msg: "Failed to save high score."})
		return
	}
	handleSuccess(w, map[string]int64{"id": id})
}

func (s *Server) handleHighScores(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", s.cfg.HighScoreLimit)
	if err != nil {
		handleError(w, err)
		return
	}
	if limit > maxPostLimit {
		limit = maxPostLimit
	}

	list, err := s.store.TopHighScores(r.Context(), limit)
	if err != nil {
		s.log.Error("could not load high scores", "error", err)
		handleError(w, InternalServerError{Msg: "Failed to load high scores."})
		return
	}
	if list == nil {
		list = []storage.HighScore{}
	}
	handleSuccess(w, list)
}

// handleLoadPosts serves the merged, shuffled batch the game client reads.
func (s *Server) handleLoadPosts(w http.ResponseWriter, r *http.Request) {
	start, limit, err := pageParams(r)
	if err != nil {
		handleError(w, err)
		return
	}
	batch, err := s.posts.LoadBatch(r.Context(), start, limit)
	if err != nil {
		s.log.Error("could not load posts", "error", err)
		handleError(w, InternalServerError{Msg: "Failed to load posts."})
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// handlePartyPosts lists one party's posts, or every post when party is empty.
func (s *Server) handlePartyPosts(party string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, limit, err := pageParams(r)
		if err != nil {
			handleError(w, err)
			return
		}

		ctx := r.Context()
		total, err := s.store.CountPosts(ctx, party)
		if err != nil {
			s.log.Error("could not count posts", "party", party, "error", err)
			handleError(w, InternalServerError{Msg: "Failed to load posts."})
			return
		}

		var posts []storage.Post
		if party == "" {
			posts, err = s.store.AllPosts(ctx, start, limit)
		} else {
			posts, err = s.store.PostsByParty(ctx, party, start, limit)
		}
		if err != nil {
			s.log.Error("could not load posts", "party", party, "error", err)
			handleError(w, InternalServerError{Msg: "Failed to load posts."})
			return
		}

		batch := content.Batch{TotalRows: total, Rows: make([]content.Payload, 0, len(posts))}
		for _, p := range posts {
			batch.Rows = append(batch.Rows, content.FromPost(p))
		}
		writeJSON(w, http.StatusOK, batch)
	}
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handleError(w, BadRequestError{Msg: "Invalid post id."})
		return
	}
	post, err := s.store.PostByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		handleError(w, NotFoundError{Msg: "Post not found."})
		return
	}
	if err != nil {
		s.log.Error("could not load post", "id", id, "error", err)
		handleError(w, InternalServerError{Msg: "Failed to load post."})
		return
	}
	handleSuccess(w, content.FromPost(*post))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, BadRequestError{Msg: "Invalid request."})
		return
	}
	if s.cfg.AdminPasswordHash == "" || s.cfg.JWTSecret == "" {
		handleError(w, UnauthorizedError{Msg: "Admin access is disabled."})
		return
	}
	if req.Username != s.cfg.AdminUser {
		handleError(w, UnauthorizedError{Msg: "Invalid username or password."})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(req.Password)); err != nil {
		handleError(w, UnauthorizedError{Msg: "Invalid username or password."})
		return
	}

	token, err := s.issueToken(req.Username)
	if err != nil {
		s.log.Error("could not sign token", "error", err)
		handleError(w, InternalServerError{Msg: "Failed to generate token."})
		return
	}
	handleSuccess(w, map[string]string{"access_token": token})
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	if s.fetcher == nil {
		handleError(w, BadRequestError{Msg: "Post fetching is not configured."})
		return
	}
	n, err := s.fetcher.RunOnce(r.Context())
	if err != nil {
		s.log.Warn("fetch finished with errors", "new", n, "error", err)
	}
	handleSuccess(w, map[string]any{"fetched": n, "complete": err == nil})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.ClearPosts(r.Context())
	if err != nil {
		s.log.Error("could not clear posts", "error", err)
		handleError(w, InternalServerError{Msg: "Failed to clear posts."})
		return
	}
	if c, ok := ClaimsFrom(r.Context()); ok {
		s.log.Warn("posts cleared", "by", c.Username, "removed", n)
	}
	handleSuccess(w, map[string]int64{"removed": n})
}
