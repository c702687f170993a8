// Package content supplies the posts carried by balloons.
//
// A Source returns a batch of payloads by offset and count. HTTPSource reads
// the backend's /load_tweets endpoint, StoreSource reads a local database,
// and Cache fronts either one so the game loop never blocks on I/O.
package content

import (
	"context"
	"errors"
	"time"
)

// ErrNotReady is returned by Cache when a batch has not been fetched yet.
var ErrNotReady = errors.New("content: batch not ready")

// Payload is one post shown on a balloon.
type Payload struct {
	ID        int64     `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Author    string    `json:"author" yaml:"author"`
	Handle    string    `json:"handle" yaml:"handle"`
	Party     string    `json:"party" yaml:"party"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Source loads a batch of payloads starting at offset start.
type Source interface {
	Load(ctx context.Context, start, count int) ([]Payload, error)
}

// Batch is the wire shape of a /load_tweets response.
type Batch struct {
	TotalRows int       `json:"total_rows"`
	Rows      []Payload `json:"rows"`
}
