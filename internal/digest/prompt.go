package digest

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/deusflow/aidigest/internal/news"
)

// Title is the digest heading shared by the prompt, the fallback and the mail subject.
const Title = "AI & Disability Daily Digest"

const promptTemplate = `You are a professional tech news editor specializing in AI and disability topics.

Here are today's collected articles:

%s

Please compile these articles into a professional daily digest with this format:

# 🤖 %s
📅 %s

## 🔥 Today's Highlights
[Select the 1-2 most important articles and write detailed 100-150 word summaries explaining why they matter]

## 📰 Other News (ranked by importance)
[List the other articles, each including:]
- **[Title]** ([Original Link](link))
  - 📝 [50-80 word summary]
  - 🔑 Keywords: [3-5 relevant keywords]

## 💡 Trend Analysis
[From today's articles, summarize 2-3 technical trends or observations]

## 📊 Today's Statistics
- Articles analyzed: %d
- Main areas: [list main application areas]
- Focus topics: [list trending keywords]

---
💌 This is an automatically generated digest. Sources: Google News, arXiv, Hacker News, Reddit.

Write in professional but accessible English, use only the links given above, and answer in markdown only.
`

// BuildPrompt serializes articles into the generation prompt.
func BuildPrompt(articles []news.Article, now time.Time) string {
	var b strings.Builder
	for i, a := range articles {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Article %d:\nTitle: %s\nLink: %s\nSummary: %s\nSource: %s",
			i+1, a.Title, a.Link, a.Summary, a.Source)
		if a.Published != "" {
			fmt.Fprintf(&b, "\nPublished: %s", a.Published)
		}
	}
	return fmt.Sprintf(promptTemplate, b.String(), Title, now.Format("January 2, 2006"), len(articles))
}

// Fallback renders a plain HTML listing of at most limit articles. Every
// article field is escaped.
func Fallback(articles []news.Article, now time.Time, limit int) string {
	shown := articles
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h1>🤖 %s</h1>\n", html.EscapeString(Title))
	fmt.Fprintf(&b, "<p>📅 %s</p>\n", now.Format("January 2, 2006"))
	b.WriteString("<p class=\"notice\">⚠️ The AI summary is unavailable today, so here are the matching articles as a plain list.</p>\n")
	fmt.Fprintf(&b, "<h2>📰 Today's Articles (%d)</h2>\n", len(articles))
	b.WriteString("<ul>\n")
	for _, a := range shown {
		b.WriteString("<li>")
		if a.Link != "" {
			fmt.Fprintf(&b, "<a href=\"%s\">%s</a>", html.EscapeString(a.Link), html.EscapeString(a.Title))
		} else {
			b.WriteString(html.EscapeString(a.Title))
		}
		fmt.Fprintf(&b, "<br><small>%s", html.EscapeString(a.Source))
		if a.Published != "" {
			fmt.Fprintf(&b, " · %s", html.EscapeString(a.Published))
		}
		b.WriteString("</small></li>\n")
	}
	b.WriteString("</ul>\n")
	if rest := len(articles) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "<p>…and %d more.</p>\n", rest)
	}
	return b.String()
}
