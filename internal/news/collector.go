package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deusflow/aidigest/internal/logger"
	"github.com/deusflow/aidigest/internal/rss"
)

// CollectOptions bounds what the Collector fetches and keeps.
type CollectOptions struct {
	Window          time.Duration
	PerSourceLimit  int
	SummaryMaxChars int
	Concurrency     int
	FetchTimeout    time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// CollectResult is the deduplicated article pool plus per-run counters.
type CollectResult struct {
	Articles      []Article
	RawEntries    int
	Stale         int
	Duplicates    int
	FailedSources []string
}

// Collector pulls entries from every source and turns them into Articles.
type Collector struct {
	src  rss.FeedSource
	opts CollectOptions
}

func NewCollector(src rss.FeedSource, opts CollectOptions) *Collector {
	if opts.PerSourceLimit <= 0 {
		opts.PerSourceLimit = 20
	}
	if opts.SummaryMaxChars <= 0 {
		opts.SummaryMaxChars = 500
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Window <= 0 {
		opts.Window = 7 * 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Collector{src: src, opts: opts}
}

// Collect fetches all sources through a bounded worker pool, then merges
// their entries in registry order. The window check and the link dedup run
// during the merge, so the first source listing a link keeps it. A failing
// source is logged and skipped.
func (c *Collector) Collect(ctx context.Context, sources []rss.Source) CollectResult {
	slots := make([][]rss.Entry, len(sources))
	errs := make([]error, len(sources))

	var g errgroup.Group
	g.SetLimit(c.opts.Concurrency)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			slots[i], errs[i] = c.fetch(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	now := c.opts.Now()
	cutoff := now.Add(-c.opts.Window)
	seenLinks := make(map[string]struct{})

	var res CollectResult
	for i, src := range sources {
		if errs[i] != nil {
			logger.Warn("source skipped", "source", src.Name, "error", errs[i])
			res.FailedSources = append(res.FailedSources, src.Name)
			continue
		}
		logger.Debug("source fetched", "source", src.Name, "entries", len(slots[i]))
		res.RawEntries += len(slots[i])

		for _, e := range slots[i] {
			a := c.normalize(e, src)

			if a.HasDate() && a.PublishedAt.Before(cutoff) {
				res.Stale++
				continue
			}

			if a.Link != "" {
				if _, dup := seenLinks[a.Link]; dup {
					logger.Debug("duplicate link", "source", src.Name, "link", a.Link)
					res.Duplicates++
					continue
				}
				seenLinks[a.Link] = struct{}{}
			}

			res.Articles = append(res.Articles, a)
		}
	}

	logger.Info("collection finished",
		"sources_ok", len(sources)-len(res.FailedSources),
		"sources_total", len(sources),
		"raw", res.RawEntries,
		"stale", res.Stale,
		"duplicates", res.Duplicates,
		"articles", len(res.Articles))
	return res
}

func (c *Collector) fetch(ctx context.Context, src rss.Source) ([]rss.Entry, error) {
	if c.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.FetchTimeout)
		defer cancel()
	}

	entries, err := c.src.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: %w", src.Name, rss.ErrNoEntries)
	}
	if len(entries) > c.opts.PerSourceLimit {
		entries = entries[:c.opts.PerSourceLimit]
	}
	return entries, nil
}

func (c *Collector) normalize(e rss.Entry, src rss.Source) Article {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		title = DefaultTitle
	}

	a := Article{
		Title:     title,
		Link:      strings.TrimSpace(e.Link),
		Summary:   truncate(plainText(e.Summary), c.opts.SummaryMaxChars),
		Source:    src.Name,
		Published: RecentSentinel,
	}
	if e.Published != nil && !e.Published.IsZero() {
		a.PublishedAt = *e.Published
		a.Published = e.Published.UTC().Format("2006-01-02")
	}
	return a
}
