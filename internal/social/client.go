// Package social fetches posts from list timelines of a social API and
// stores them tagged with the party of the list they came from.
package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// statusTimeLayout is the created_at format of the API.
const statusTimeLayout = time.RubyDate

// Status is one post in a list timeline.
type Status struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	FullText  string `json:"full_text"`
	CreatedAt string `json:"created_at"`
	User      struct {
		Name       string `json:"name"`
		ScreenName string `json:"screen_name"`
	} `json:"user"`
}

// Body returns the full text when the API provided it.
func (s Status) Body() string {
	if s.FullText != "" {
		return s.FullText
	}
	return s.Text
}

// Time parses CreatedAt, returning the zero time if it is malformed.
func (s Status) Time() time.Time {
	t, err := time.Parse(statusTimeLayout, s.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Client calls the list timeline endpoint with bearer token auth.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// ListStatuses returns up to count posts of the list owner/slug newer than
// sinceID. A zero sinceID returns the newest posts.
func (c *Client) ListStatuses(ctx context.Context, owner, slug string, count int, sinceID int64) ([]Status, error) {
	q := url.Values{}
	q.Set("owner_screen_name", owner)
	q.Set("slug", slug)
	q.Set("count", strconv.Itoa(count))
	if sinceID > 0 {
		q.Set("since_id", strconv.FormatInt(sinceID, 10))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/lists/statuses.json?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("social: cannot build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("social: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("social: %s/%s returned %d: %s", owner, slug, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var statuses []Status
	if err := json.NewDecoder(resp.Body).Decode(&statuses); err != nil {
		return nil, fmt.Errorf("social: cannot decode statuses: %w", err)
	}
	return statuses, nil
}
