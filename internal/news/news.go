package news

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultTitle replaces a missing entry title.
	DefaultTitle = "No Title"
	// RecentSentinel marks an article whose publish time is unknown.
	RecentSentinel = "Recent"
)

// Article represents a single normalized feed entry.
type Article struct {
	Title   string
	Link    string
	Summary string
	Source  string

	Published   string    // YYYY-MM-DD or RecentSentinel
	PublishedAt time.Time // zero when the feed gave no usable timestamp
}

// HasDate reports whether the article carries a parsed publish time.
func (a Article) HasDate() bool {
	return !a.PublishedAt.IsZero()
}

// plainText strips markup from a feed summary. Feeds such as Google News
// ship HTML fragments in <description>.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
