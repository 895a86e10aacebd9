// Package render turns a digest into a self-contained HTML email document.
package render

import (
	"html"
	"regexp"
	"strings"

	"github.com/deusflow/aidigest/internal/digest"
)

// Rule is one markdown-like pattern and its HTML replacement.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Apply runs the rule over s.
func (r Rule) Apply(s string) string {
	return r.Pattern.ReplaceAllString(s, r.Replacement)
}

// Order matters: longer header prefixes first, links before emphasis so a
// bold title inside link text still converts.
var rules = []Rule{
	{"h3", regexp.MustCompile(`(?m)^###[ \t]+(.+?)[ \t]*$`), `<h3>${1}</h3>`},
	{"h2", regexp.MustCompile(`(?m)^##[ \t]+(.+?)[ \t]*$`), `<h2>${1}</h2>`},
	{"h1", regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t]*$`), `<h1>${1}</h1>`},
	{"link", regexp.MustCompile(`\[([^\]\n]+)\]\((https?://[^)\s]+)\)`), `<a href="${2}">${1}</a>`},
	{"bold", regexp.MustCompile(`\*\*([^*\n]+)\*\*`), `<strong>${1}</strong>`},
	{"subbullet", regexp.MustCompile(`(?m)^[ \t]{2,}[-*][ \t]+(.+)$`), `<div class="bullet sub">◦ ${1}</div>`},
	{"bullet", regexp.MustCompile(`(?m)^[-*][ \t]+(.+)$`), `<div class="bullet">• ${1}</div>`},
	{"rule", regexp.MustCompile(`(?m)^-{3,}[ \t]*$`), `<hr>`},
}

// Rules returns the substitution table in application order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Markdown escapes text and then applies the substitution table. Anything
// outside the table's patterns passes through as escaped text.
func Markdown(text string) string {
	out := html.EscapeString(strings.ReplaceAll(text, "\r\n", "\n"))
	for _, r := range rules {
		out = r.Apply(out)
	}
	return paragraphs(out)
}

// paragraphs turns blank-line separated plain text into <p> blocks and
// leaves lines that already start with a block tag alone.
func paragraphs(s string) string {
	var b strings.Builder
	for _, block := range strings.Split(s, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		var lines []string
		var text []string
		flush := func() {
			if len(text) > 0 {
				lines = append(lines, "<p>"+strings.Join(text, "<br>\n")+"</p>")
				text = nil
			}
		}
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if isBlock(line) {
				flush()
				lines = append(lines, line)
				continue
			}
			text = append(text, line)
		}
		flush()
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

func isBlock(line string) bool {
	for _, tag := range []string{"<h1>", "<h2>", "<h3>", "<div ", "<hr>"} {
		if strings.HasPrefix(line, tag) {
			return true
		}
	}
	return false
}

// Content returns the HTML body fragment for d.
func Content(d digest.Digest) string {
	if d.Kind == digest.KindFallback {
		return d.Text
	}
	return Markdown(d.Text)
}

// Document wraps the digest in the styled shell.
func Document(d digest.Digest) string {
	return shell(Content(d))
}

// Status renders a short notice (used when nothing matched) in the same shell.
func Status(title, message string) string {
	return shell("<h1>" + html.EscapeString(title) + "</h1>\n<p>" + html.EscapeString(message) + "</p>\n")
}

func shell(content string) string {
	var b strings.Builder
	b.Grow(len(head) + len(content) + len(foot))
	b.WriteString(head)
	b.WriteString(content)
	b.WriteString(foot)
	return b.String()
}

const head = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', 'Roboto', 'Helvetica Neue', sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 800px;
            margin: 0 auto;
            padding: 20px;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
        }
        .container {
            background: white;
            border-radius: 16px;
            padding: 40px;
            box-shadow: 0 10px 40px rgba(0,0,0,0.1);
        }
        h1 {
            color: #667eea;
            border-bottom: 3px solid #667eea;
            padding-bottom: 10px;
            font-size: 28px;
        }
        h2 {
            color: #764ba2;
            margin-top: 30px;
            font-size: 22px;
        }
        h3 {
            color: #555;
            font-size: 18px;
        }
        a {
            color: #667eea;
            text-decoration: none;
        }
        a:hover {
            text-decoration: underline;
        }
        .bullet {
            margin: 6px 0;
        }
        .bullet.sub {
            margin-left: 24px;
            color: #555;
        }
        .notice {
            background: #fff8e1;
            border-left: 4px solid #ffb300;
            padding: 10px 14px;
        }
        .footer {
            margin-top: 40px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            color: #999;
            font-size: 14px;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="container">
`

const foot = `        <div class="footer">
            <p>📧 This email was automatically generated and sent</p>
            <p>🤖 Compiled by Google Gemini AI | 🔄 Updated daily</p>
            <p>💡 Sources: Google News, arXiv, Hacker News, Reddit</p>
        </div>
    </div>
</body>
</html>
`
