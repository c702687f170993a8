package social

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hot-air/internal/config"
	"github.com/vovakirdan/hot-air/internal/storage"
)

type memStore struct {
	posts map[int64]storage.Post
}

func newMemStore() *memStore { return &memStore{posts: map[int64]storage.Post{}} }

func (m *memStore) MaxPostID(_ context.Context, party string) (int64, error) {
	var id int64
	for _, p := range m.posts {
		if p.Party == party && p.ID > id {
			id = p.ID
		}
	}
	return id, nil
}

func (m *memStore) SavePosts(_ context.Context, posts []storage.Post) (int, error) {
	n := 0
	for _, p := range posts {
		if _, ok := m.posts[p.ID]; !ok {
			m.posts[p.ID] = p
			n++
		}
	}
	return n, nil
}

func status(id int64, text, name, handle string) map[string]any {
	return map[string]any{
		"id":         id,
		"text":       text,
		"created_at": "Mon Oct 01 12:00:00 +0000 2012",
		"user":       map[string]any{"name": name, "screen_name": handle},
	}
}

func TestFetcherTagsPartyAndUsesSinceID(t *testing.T) {
	var mu sync.Mutex
	sinceIDs := map[string][]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		slug := r.URL.Query().Get("slug")
		mu.Lock()
		sinceIDs[slug] = append(sinceIDs[slug], r.URL.Query().Get("since_id"))
		mu.Unlock()
		if r.URL.Query().Get("owner_screen_name") != "tweetcongress" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch slug {
		case "democrats":
			json.NewEncoder(w).Encode([]any{status(20, "dem post", "Dem", "dem")})
		case "republican":
			json.NewEncoder(w).Encode([]any{status(31, "rep post", "Rep", "rep"), status(30, "older", "Rep", "rep")})
		}
	}))
	defer srv.Close()

	store := newMemStore()
	cfg := config.Default().Fetcher
	f := NewFetcher(NewClient(srv.URL, "tok", 0), store, cfg, log.New(io.Discard))

	n, err := f.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 new posts, got %d", n)
	}
	if store.posts[20].Party != "d" || store.posts[31].Party != "r" {
		t.Errorf("Posts not tagged by list: %+v", store.posts)
	}
	if store.posts[31].Handle != "rep" || store.posts[31].Author != "Rep" {
		t.Errorf("Author not copied: %+v", store.posts[31])
	}
	want := time.Date(2012, 10, 1, 12, 0, 0, 0, time.UTC)
	if !store.posts[20].CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", store.posts[20].CreatedAt, want)
	}

	n, _ = f.RunOnce(context.Background())
	if n != 0 {
		t.Errorf("Second run should find nothing new, got %d", n)
	}
	mu.Lock()
	defer mu.Unlock()
	if got := sinceIDs["democrats"]; len(got) != 2 || got[0] != "" || got[1] != "20" {
		t.Errorf("democrats since_id = %v", got)
	}
	if got := sinceIDs["republican"]; len(got) != 2 || got[1] != "31" {
		t.Errorf("republican since_id = %v", got)
	}
}

func TestFetcherContinuesPastFailingList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("slug") == "democrats" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode([]any{status(5, "rep", "Rep", "rep")})
	}))
	defer srv.Close()

	store := newMemStore()
	f := NewFetcher(NewClient(srv.URL, "", 0), store, config.Default().Fetcher, log.New(io.Discard))

	n, err := f.RunOnce(context.Background())
	if err == nil {
		t.Error("Expected an error from the failing list")
	}
	if n != 1 || len(store.posts) != 1 {
		t.Errorf("Other lists should still be fetched, got %d", n)
	}
}

func TestFetcherRejectsUnknownParty(t *testing.T) {
	cfg := config.Default().Fetcher
	cfg.Lists = []config.ListConfig{{Slug: "greens", Party: "g"}}
	f := NewFetcher(NewClient("http://127.0.0.1:0", "", time.Second), newMemStore(), cfg, log.New(io.Discard))

	if _, err := f.RunOnce(context.Background()); err == nil {
		t.Error("Expected error for unknown party")
	}
}

func TestFetcherRunStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	cfg := config.Default().Fetcher
	f := NewFetcher(NewClient(srv.URL, "", 0), newMemStore(), cfg, log.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestParseScheduleAlignsToWallClock(t *testing.T) {
	sched, err := ParseSchedule("")
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}

	tests := []struct {
		from time.Time
		want time.Time
	}{
		{time.Date(2024, 3, 1, 10, 5, 30, 0, time.UTC), time.Date(2024, 3, 1, 10, 12, 0, 0, time.UTC)},
		{time.Date(2024, 3, 1, 10, 12, 0, 0, time.UTC), time.Date(2024, 3, 1, 10, 24, 0, 0, time.UTC)},
		{time.Date(2024, 3, 1, 10, 50, 1, 0, time.UTC), time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		next := sched.Next(tt.from)
		if !next.Equal(tt.want) {
			t.Errorf("Next(%s) = %s, want %s", tt.from.Format(time.TimeOnly), next.Format(time.TimeOnly), tt.want.Format(time.TimeOnly))
		}
		if next.Minute()%12 != 0 || next.Second() != 0 {
			t.Errorf("Next(%s) = %s is not on a 12 minute boundary", tt.from.Format(time.TimeOnly), next.Format(time.TimeOnly))
		}
	}
}

func TestParseScheduleRejectsBadExpression(t *testing.T) {
	if _, err := ParseSchedule("every twelve minutes"); err == nil {
		t.Error("Expected error for malformed schedule")
	}
	// Five-field expressions lack the seconds field.
	if _, err := ParseSchedule("*/12 * * * *"); err == nil {
		t.Error("Expected error for five-field schedule")
	}
}

func TestFetcherRunBadScheduleFetchesNothing(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	cfg := config.Default().Fetcher
	cfg.Schedule = "not a schedule"
	f := NewFetcher(NewClient(srv.URL, "", 0), newMemStore(), cfg, log.New(io.Discard))

	if err := f.Run(context.Background()); err == nil {
		t.Error("Expected error for bad schedule")
	}
	if hits != 0 {
		t.Errorf("fetched %d times before rejecting the schedule", hits)
	}
}
