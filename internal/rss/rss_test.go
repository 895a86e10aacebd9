package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/aidigest/internal/ratelimit"
)

func TestDefaultFeeds(t *testing.T) {
	cfg, err := DefaultFeeds()
	require.NoError(t, err)

	require.NotEmpty(t, cfg.Sources)
	assert.Equal(t, "Google News - AI & Disability", cfg.Sources[0].Name)
	assert.Contains(t, cfg.Topics.AI, "artificial intelligence")
	assert.Contains(t, cfg.Topics.Accessibility, "wheelchair")
}

func TestLoadFeeds_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFeeds(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	defaults, err := DefaultFeeds()
	require.NoError(t, err)
	assert.Equal(t, defaults, cfg)
}

func TestLoadFeeds_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	data := `sources:
  - name: One
    url: https://example.com/one.xml
  - name: Two
    url: http://example.com/two.xml
topics:
  ai: [ai]
  accessibility: [blind]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFeeds(path)
	require.NoError(t, err)
	assert.Equal(t, []Source{
		{Name: "One", URL: "https://example.com/one.xml"},
		{Name: "Two", URL: "http://example.com/two.xml"},
	}, cfg.Sources)
	assert.Equal(t, []string{"blind"}, cfg.Topics.Accessibility)
}

func TestFeedsConfig_Validate(t *testing.T) {
	topics := Topics{AI: []string{"ai"}, Accessibility: []string{"deaf"}}
	tests := []struct {
		name    string
		cfg     FeedsConfig
		wantErr string
	}{
		{"no sources", FeedsConfig{Topics: topics}, "no sources"},
		{"missing name", FeedsConfig{Sources: []Source{{URL: "https://a"}}, Topics: topics}, "name is required"},
		{"duplicate name", FeedsConfig{Sources: []Source{{Name: "a", URL: "https://a"}, {Name: "a", URL: "https://b"}}, Topics: topics}, "duplicate"},
		{"bad scheme", FeedsConfig{Sources: []Source{{Name: "a", URL: "ftp://a"}}, Topics: topics}, "scheme"},
		{"empty topic", FeedsConfig{Sources: []Source{{Name: "a", URL: "https://a"}}, Topics: Topics{AI: []string{"ai"}}}, "non-empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, tt.cfg.Validate(), tt.wantErr)
		})
	}
}

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Sample</title>
  <link>https://example.com</link>
  <description>sample</description>
  <item>
    <title>AI captions for deaf viewers</title>
    <link>https://example.com/a</link>
    <description>&lt;p&gt;New &lt;b&gt;captioning&lt;/b&gt; model&lt;/p&gt;</description>
    <pubDate>Mon, 12 Oct 2026 08:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Undated item</title>
    <link>https://example.com/b</link>
    <description>no date</description>
  </item>
</channel>
</rss>`

func TestParser_Fetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	p := NewParser("aidigest-test", 5*time.Second)
	entries, err := p.Fetch(context.Background(), Source{Name: "Sample", URL: srv.URL})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "aidigest-test", gotUA)
	assert.Equal(t, "AI captions for deaf viewers", entries[0].Title)
	assert.Equal(t, "https://example.com/a", entries[0].Link)
	require.NotNil(t, entries[0].Published)
	assert.Equal(t, 2026, entries[0].Published.Year())
	assert.Nil(t, entries[1].Published)
}

func TestParser_FetchEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`))
	}))
	defer srv.Close()

	_, err := NewParser("", time.Second).Fetch(context.Background(), Source{Name: "Empty", URL: srv.URL})
	assert.ErrorIs(t, err, ErrNoEntries)
}

func TestParser_FetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewParser("", time.Second).Fetch(context.Background(), Source{Name: "Broken", URL: srv.URL})
	assert.Error(t, err)
}

func TestParser_FetchWaitsOnHostLimiter(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	p := NewParser("", time.Second).WithHostLimiter(ratelimit.NewHostLimiter(time.Hour))
	_, err := p.Fetch(context.Background(), Source{Name: "First", URL: srv.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.Fetch(ctx, Source{Name: "Second", URL: srv.URL + "/other"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, hits)
}
