package content

import (
	"context"
	"math/rand"
	"sync"

	"github.com/vovakirdan/hot-air/internal/storage"
)

// Parties lists the party codes posts are tagged with.
var Parties = []string{"d", "r"}

// PostReader is the subset of storage.Store used by StoreSource.
type PostReader interface {
	PostsByParty(ctx context.Context, party string, offset, limit int) ([]storage.Post, error)
	CountPosts(ctx context.Context, party string) (int, error)
}

// StoreSource reads merged batches straight from the database.
type StoreSource struct {
	store PostReader

	mu  sync.Mutex
	rng *rand.Rand
}

// NewStoreSource creates a source over store. The seed drives the shuffle.
func NewStoreSource(store PostReader, seed int64) *StoreSource {
	return &StoreSource{
		store: store,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Load implements Source.
func (s *StoreSource) Load(ctx context.Context, start, count int) ([]Payload, error) {
	batch, err := s.LoadBatch(ctx, start, count)
	if err != nil {
		return nil, err
	}
	return batch.Rows, nil
}

// LoadBatch returns limit/2 posts of each party (newest first, skipping
// start rows per party) shuffled together. An odd limit is rounded down.
func (s *StoreSource) LoadBatch(ctx context.Context, start, limit int) (Batch, error) {
	per := limit / 2
	batch := Batch{Rows: []Payload{}}

	for _, party := range Parties {
		total, err := s.store.CountPosts(ctx, party)
		if err != nil {
			return Batch{}, err
		}
		batch.TotalRows += total

		posts, err := s.store.PostsByParty(ctx, party, start, per)
		if err != nil {
			return Batch{}, err
		}
		for _, p := range posts {
			batch.Rows = append(batch.Rows, FromPost(p))
		}
	}

	s.mu.Lock()
	s.rng.Shuffle(len(batch.Rows), func(i, j int) {
		batch.Rows[i], batch.Rows[j] = batch.Rows[j], batch.Rows[i]
	})
	s.mu.Unlock()

	return batch, nil
}

// FromPost converts a stored post to a payload.
func FromPost(p storage.Post) Payload {
	return Payload{
		ID:        p.ID,
		Text:      p.Text,
		Author:    p.Author,
		Handle:    p.Handle,
		Party:     p.Party,
		CreatedAt: p.CreatedAt,
	}
}
