package rss

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/aidigest/internal/ratelimit"
)

// ErrNoEntries is returned when a feed parses but carries no items.
var ErrNoEntries = errors.New("feed has no entries")

// Entry is one raw item as yielded by a feed.
type Entry struct {
	Title     string
	Link      string
	Summary   string
	Published *time.Time
}

// FeedSource fetches the raw entries of one source.
type FeedSource interface {
	Fetch(ctx context.Context, src Source) ([]Entry, error)
}

// Parser is a FeedSource backed by gofeed.
type Parser struct {
	parser  *gofeed.Parser
	limiter *ratelimit.HostLimiter
}

// NewParser returns a Parser that identifies itself with userAgent. Some
// aggregators (Reddit in particular) reject requests without one.
func NewParser(userAgent string, timeout time.Duration) *Parser {
	p := gofeed.NewParser()
	p.UserAgent = userAgent
	p.Client = &http.Client{Timeout: timeout}
	return &Parser{parser: p}
}

// WithHostLimiter makes Fetch wait on l before contacting a feed's host.
func (p *Parser) WithHostLimiter(l *ratelimit.HostLimiter) *Parser {
	p.limiter = l
	return p
}

func (p *Parser) Fetch(ctx context.Context, src Source) ([]Entry, error) {
	if p.limiter != nil {
		u, err := url.Parse(src.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing %s url: %w", src.Name, err)
		}
		if err := p.limiter.Wait(ctx, u.Hostname()); err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name, err)
		}
	}

	feed, err := p.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", src.Name, err)
	}
	if len(feed.Items) == 0 {
		return nil, fmt.Errorf("%s: %w", src.Name, ErrNoEntries)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}
		entries = append(entries, Entry{
			Title:     item.Title,
			Link:      item.Link,
			Summary:   summary,
			Published: published,
		})
	}
	return entries, nil
}
