package content

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

//go:embed fallback/posts.yaml
var fallbackYAML []byte

var (
	fallbackOnce  sync.Once
	fallbackPosts []Payload
)

func parseFallback(data []byte) ([]Payload, error) {
	var doc struct {
		Posts []Payload `yaml:"posts"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("content: cannot parse fallback posts: %w", err)
	}
	return doc.Posts, nil
}

func loadFallback() []Payload {
	fallbackOnce.Do(func() {
		posts, err := parseFallback(fallbackYAML)
		if err != nil {
			log.Error("using built-in posts", "error", err)
		}
		fallbackPosts = posts
		if len(fallbackPosts) == 0 {
			fallbackPosts = []Payload{
				{ID: 1, Party: "d", Text: "We need to invest in our future.", Author: "A Democrat", Handle: "democrat"},
				{ID: 2, Party: "r", Text: "Cut taxes, grow jobs.", Author: "A Republican", Handle: "republican"},
			}
		}
	})
	return fallbackPosts
}

// Fallback returns count built-in payloads starting at start, wrapping
// around the embedded set. It is used when no source can deliver.
func Fallback(start, count int) []Payload {
	posts := loadFallback()
	if count <= 0 {
		return nil
	}
	if start < 0 {
		start = 0
	}
	out := make([]Payload, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, posts[(start+i)%len(posts)])
	}
	return out
}

// FallbackSource serves the embedded posts.
type FallbackSource struct{}

// Load implements Source.
func (FallbackSource) Load(_ context.Context, start, count int) ([]Payload, error) {
	return Fallback(start, count), nil
}
