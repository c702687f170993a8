package social

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"

	"github.com/vovakirdan/hot-air/internal/config"
	"github.com/vovakirdan/hot-air/internal/hotair"
	"github.com/vovakirdan/hot-air/internal/storage"
)

// PostStore is the subset of storage.Store the fetcher writes to.
type PostStore interface {
	MaxPostID(ctx context.Context, party string) (int64, error)
	SavePosts(ctx context.Context, posts []storage.Post) (int, error)
}

// Fetcher pulls new posts for every configured list into the store.
type Fetcher struct {
	client *Client
	store  PostStore
	cfg    config.FetcherConfig
	log    *log.Logger
}

// NewFetcher creates a fetcher.
func NewFetcher(client *Client, store PostStore, cfg config.FetcherConfig, logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{client: client, store: store, cfg: cfg, log: logger}
}

// RunOnce fetches every list once, asking only for posts newer than the
// newest stored post of the list's party. A failing list does not stop the
// others; their errors are joined. Returns the number of new posts.
func (f *Fetcher) RunOnce(ctx context.Context) (int, error) {
	var errs []error
	total := 0
	for _, list := range f.cfg.Lists {
		n, err := f.fetchList(ctx, list)
		if err != nil {
			f.log.Error("fetch failed", "list", list.Slug, "error", err)
			errs = append(errs, err)
			continue
		}
		total += n
		f.log.Info("fetched posts", "list", list.Slug, "new", n)
	}
	return total, errors.Join(errs...)
}

func (f *Fetcher) fetchList(ctx context.Context, list config.ListConfig) (int, error) {
	party, err := hotair.ParseParty(list.Party)
	if err != nil {
		return 0, fmt.Errorf("social: list %s: %w", list.Slug, err)
	}

	since, err := f.store.MaxPostID(ctx, string(party))
	if err != nil {
		return 0, err
	}

	statuses, err := f.client.ListStatuses(ctx, f.cfg.Owner, list.Slug, f.cfg.PerPage, since)
	if err != nil {
		return 0, err
	}

	posts := make([]storage.Post, 0, len(statuses))
	for _, s := range statuses {
		if s.ID == 0 || s.Body() == "" {
			continue
		}
		posts = append(posts, storage.Post{
			ID:        s.ID,
			Party:     string(party),
			Text:      s.Body(),
			Author:    s.User.Name,
			Handle:    s.User.ScreenName,
			CreatedAt: s.Time(),
		})
	}
	return f.store.SavePosts(ctx, posts)
}

// ParseSchedule parses a six-field cron expression with a leading seconds
// field. An empty expression yields config.DefaultFetchSchedule.
func ParseSchedule(spec string) (cron.Schedule, error) {
	if spec == "" {
		spec = config.DefaultFetchSchedule
	}
	sched, err := cronParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("social: bad fetch schedule %q: %w", spec, err)
	}
	return sched, nil
}

var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Run fetches immediately and then on the configured schedule until ctx is
// cancelled. A run still in progress when the next one is due is skipped.
func (f *Fetcher) Run(ctx context.Context) error {
	sched, err := ParseSchedule(f.cfg.Schedule)
	if err != nil {
		return err
	}

	//nolint:errcheck // failures are logged per list
	f.RunOnce(ctx)

	logger := cronLogger{f.log}
	c := cron.New(
		cron.WithParser(cronParser),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(sched, cron.FuncJob(func() {
		//nolint:errcheck // failures are logged per list
		f.RunOnce(ctx)
	}))
	c.Start()
	f.log.Info("fetch job scheduled", "next", sched.Next(time.Now()))

	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

// cronLogger adapts a charmbracelet logger to cron.Logger.
type cronLogger struct {
	log *log.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
