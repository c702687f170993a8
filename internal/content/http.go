package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HTTPSource loads payloads from a Hot Air backend.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a source for the backend at baseURL.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Load implements Source using GET /load_tweets.
func (s *HTTPSource) Load(ctx context.Context, start, count int) ([]Payload, error) {
	q := url.Values{}
	q.Set("startkey", strconv.Itoa(start))
	q.Set("limit", strconv.Itoa(count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/load_tweets?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("content: cannot build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content: unexpected status %d from %s", resp.StatusCode, s.baseURL)
	}

	var batch Batch
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, fmt.Errorf("content: cannot decode batch: %w", err)
	}
	return batch.Rows, nil
}
