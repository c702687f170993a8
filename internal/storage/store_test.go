package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
	if store.Driver() != "sqlite" {
		t.Errorf("Expected sqlite driver, got %q", store.Driver())
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.hotair/test.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".hotair", "test.db")); err != nil {
		t.Errorf("Expected database under home directory: %v", err)
	}
}

func TestHighScoresOrderedAndLimited(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i, score := range []int{300, 100, 700, 500, 200, 600} {
		party := "d"
		if i%2 == 1 {
			party = "r"
		}
		if _, err := store.SaveHighScore(ctx, HighScore{User: "XXX", Score: score, Party: party}); err != nil {
			t.Fatalf("SaveHighScore() failed: %v", err)
		}
	}

	top, err := store.TopHighScores(ctx, 5)
	if err != nil {
		t.Fatalf("TopHighScores() failed: %v", err)
	}
	if len(top) != 5 {
		t.Fatalf("Expected 5 scores, got %d", len(top))
	}
	want := []int{700, 600, 500, 300, 200}
	for i, w := range want {
		if top[i].Score != w {
			t.Errorf("Position %d: expected %d, got %d", i, w, top[i].Score)
		}
	}
	if top[0].User != "XXX" || top[0].Party != "d" {
		t.Errorf("Unexpected first entry: %+v", top[0])
	}

	reps, err := store.TopHighScoresByParty(ctx, "r", 10)
	if err != nil {
		t.Fatalf("TopHighScoresByParty() failed: %v", err)
	}
	if len(reps) != 3 || reps[0].Score != 600 {
		t.Errorf("Unexpected republican scores: %+v", reps)
	}
}

func TestBestScoreAndClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	best, err := store.BestScore(ctx)
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("Expected 0 on empty table, got %d", best)
	}

	store.SaveHighScore(ctx, HighScore{User: "XXX", Score: 400, Party: "r"})
	store.SaveHighScore(ctx, HighScore{User: "XXX", Score: -100, Party: "d"})

	best, _ = store.BestScore(ctx)
	if best != 400 {
		t.Errorf("Expected best 400, got %d", best)
	}

	if err := store.ClearHighScores(ctx); err != nil {
		t.Fatalf("ClearHighScores() failed: %v", err)
	}
	top, _ := store.TopHighScores(ctx, 5)
	if len(top) != 0 {
		t.Errorf("Expected no scores after clear, got %d", len(top))
	}
}

func TestStatsByParty(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.SaveHighScore(ctx, HighScore{User: "XXX", Score: 100, Party: "d"})
	store.SaveHighScore(ctx, HighScore{User: "XXX", Score: 300, Party: "d"})
	store.SaveHighScore(ctx, HighScore{User: "XXX", Score: 50, Party: "r"})

	stats, err := store.StatsByParty(ctx)
	if err != nil {
		t.Fatalf("StatsByParty() failed: %v", err)
	}
	d := stats["d"]
	if d == nil {
		t.Fatal("Missing democrat stats")
	}
	if d.GamesCount != 2 || d.HighScore != 300 || d.AvgScore != 200 || d.TotalScore != 400 {
		t.Errorf("Unexpected democrat stats: %+v", d)
	}
	if stats["r"] == nil || stats["r"].GamesCount != 1 {
		t.Errorf("Unexpected republican stats: %+v", stats["r"])
	}
}

func samplePosts() []Post {
	at := time.Date(2012, 10, 1, 12, 0, 0, 0, time.UTC)
	return []Post{
		{ID: 101, Party: "d", Text: "first dem", Author: "Dem One", Handle: "dem1", CreatedAt: at},
		{ID: 102, Party: "r", Text: "first rep", Author: "Rep One", Handle: "rep1", CreatedAt: at},
		{ID: 103, Party: "d", Text: "second dem", Author: "Dem Two", Handle: "dem2", CreatedAt: at.Add(time.Hour)},
		{ID: 104, Party: "r", Text: "second rep", Author: "Rep Two", Handle: "rep2", CreatedAt: at.Add(time.Hour)},
	}
}

func TestSavePostsSkipsDuplicates(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	n, err := store.SavePosts(ctx, samplePosts())
	if err != nil {
		t.Fatalf("SavePosts() failed: %v", err)
	}
	if n != 4 {
		t.Errorf("Expected 4 inserted, got %d", n)
	}

	n, err = store.SavePosts(ctx, samplePosts()[:2])
	if err != nil {
		t.Fatalf("SavePosts() second batch failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected duplicates to be skipped, inserted %d", n)
	}

	total, _ := store.CountPosts(ctx, "")
	if total != 4 {
		t.Errorf("Expected 4 posts total, got %d", total)
	}
	dems, _ := store.CountPosts(ctx, "d")
	if dems != 2 {
		t.Errorf("Expected 2 democrat posts, got %d", dems)
	}
}

func TestPostsByPartyNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	store.SavePosts(ctx, samplePosts())

	posts, err := store.PostsByParty(ctx, "d", 0, 10)
	if err != nil {
		t.Fatalf("PostsByParty() failed: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != 103 || posts[1].ID != 101 {
		t.Fatalf("Unexpected order: %+v", posts)
	}
	if posts[0].Author != "Dem Two" || posts[0].Handle != "dem2" {
		t.Errorf("Fields not round-tripped: %+v", posts[0])
	}
	if !posts[0].CreatedAt.Equal(time.Date(2012, 10, 1, 13, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt not round-tripped: %v", posts[0].CreatedAt)
	}

	posts, _ = store.PostsByParty(ctx, "d", 1, 10)
	if len(posts) != 1 || posts[0].ID != 101 {
		t.Errorf("Offset not applied: %+v", posts)
	}

	all, _ := store.AllPosts(ctx, 0, 3)
	if len(all) != 3 || all[0].ID != 104 {
		t.Errorf("Unexpected AllPosts result: %+v", all)
	}
}

func TestMaxPostID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.MaxPostID(ctx, "r")
	if err != nil {
		t.Fatalf("MaxPostID() failed: %v", err)
	}
	if id != 0 {
		t.Errorf("Expected 0 with no posts, got %d", id)
	}

	store.SavePosts(ctx, samplePosts())
	id, _ = store.MaxPostID(ctx, "r")
	if id != 104 {
		t.Errorf("Expected 104, got %d", id)
	}
}

func TestPostByIDNotFound(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	store.SavePosts(ctx, samplePosts())

	p, err := store.PostByID(ctx, 102)
	if err != nil {
		t.Fatalf("PostByID() failed: %v", err)
	}
	if p.Text != "first rep" {
		t.Errorf("Unexpected post: %+v", p)
	}

	if _, err := store.PostByID(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestClearPosts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	store.SavePosts(ctx, samplePosts())

	n, err := store.ClearPosts(ctx)
	if err != nil {
		t.Fatalf("ClearPosts() failed: %v", err)
	}
	if n != 4 {
		t.Errorf("Expected 4 removed, got %d", n)
	}
	total, _ := store.CountPosts(ctx, "")
	if total != 0 {
		t.Errorf("Expected empty table, got %d", total)
	}
}

func TestRebindPostgres(t *testing.T) {
	d := dialectFor("postgres://user@localhost/hotair")
	if d.driver != "postgres" {
		t.Fatalf("Expected postgres driver, got %q", d.driver)
	}
	got := d.rebind("SELECT * FROM posts WHERE party = ? LIMIT ? OFFSET ?")
	want := "SELECT * FROM posts WHERE party = $1 LIMIT $2 OFFSET $3"
	if got != want {
		t.Errorf("rebind = %q, want %q", got, want)
	}

	sqlite := dialectFor("/tmp/x.db")
	if sqlite.rebind("a = ?") != "a = ?" {
		t.Error("sqlite queries should not be rewritten")
	}
}
