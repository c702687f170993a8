package content

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type batchKey struct {
	start, count int
}

// Cache fronts a Source with background prefetching. Load never blocks:
// it returns a batch fetched earlier, or ErrNotReady after scheduling a
// fetch. Failed fetches are reported once and then retried on demand.
type Cache struct {
	upstream Source
	timeout  time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	batches map[batchKey][]Payload
	pending map[batchKey]bool
	failed  map[batchKey]error

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCache creates a cache over upstream. Each fetch is bounded by timeout.
func NewCache(upstream Source, timeout time.Duration, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		upstream: upstream,
		timeout:  timeout,
		logger:   logger,
		batches:  make(map[batchKey][]Payload),
		pending:  make(map[batchKey]bool),
		failed:   make(map[batchKey]error),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Prefetch schedules a background fetch unless the batch is cached or
// already in flight.
func (c *Cache) Prefetch(start, count int) {
	k := batchKey{start, count}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx.Err() != nil {
		return
	}
	if _, ok := c.batches[k]; ok || c.pending[k] {
		return
	}
	delete(c.failed, k)
	c.pending[k] = true

	c.wg.Add(1)
	go c.fetch(k)
}

func (c *Cache) fetch(k batchKey) {
	defer c.wg.Done()

	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()

	rows, err := c.upstream.Load(ctx, k.start, k.count)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, k)
	if err != nil {
		c.failed[k] = err
		c.logger.Warn("content fetch failed", "start", k.start, "count", k.count, "error", err)
		return
	}
	c.batches[k] = rows
	c.logger.Debug("content batch cached", "start", k.start, "count", k.count, "rows", len(rows))
}

// Load implements Source without blocking.
func (c *Cache) Load(ctx context.Context, start, count int) ([]Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k := batchKey{start, count}

	c.mu.Lock()
	if rows, ok := c.batches[k]; ok {
		c.mu.Unlock()
		return rows, nil
	}
	if err, ok := c.failed[k]; ok {
		delete(c.failed, k)
		c.mu.Unlock()
		return nil, err
	}
	pending := c.pending[k]
	c.mu.Unlock()

	if !pending {
		c.Prefetch(start, count)
	}
	return nil, ErrNotReady
}

// Ready reports whether a fetch for the batch has settled, successfully or not.
func (c *Cache) Ready(start, count int) bool {
	k := batchKey{start, count}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.batches[k]
	_, bad := c.failed[k]
	return ok || bad
}

// Wait blocks until every in-flight fetch has finished.
func (c *Cache) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight fetches and waits for them to exit.
func (c *Cache) Close() {
	c.mu.Lock()
	c.cancel()
	c.mu.Unlock()
	c.wg.Wait()
}
