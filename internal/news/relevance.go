package news

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// MatchMode selects how keywords are looked up in an article's text.
type MatchMode int

const (
	// MatchWord matches whole words and phrases only ("ai" does not hit "said").
	MatchWord MatchMode = iota
	// MatchSubstring matches anywhere in the lowercased text.
	MatchSubstring
)

// ParseMatchMode maps "word" and "substring" to a MatchMode; anything else is MatchWord.
func ParseMatchMode(s string) MatchMode {
	if strings.EqualFold(strings.TrimSpace(s), "substring") {
		return MatchSubstring
	}
	return MatchWord
}

// Relevance keeps articles that hit at least one keyword from each of two
// independent sets.
type Relevance struct {
	mode      MatchMode
	primary   []string
	secondary []string
}

// NewRelevance prepares both keyword sets for the given mode. Blank keywords
// are dropped.
func NewRelevance(primary, secondary []string, mode MatchMode) *Relevance {
	return &Relevance{
		mode:      mode,
		primary:   prepareKeywords(primary, mode),
		secondary: prepareKeywords(secondary, mode),
	}
}

// Match reports whether title+summary hits both keyword sets.
func (r *Relevance) Match(a Article) bool {
	text := r.haystack(a.Title + " " + a.Summary)
	return containsAny(text, r.primary) && containsAny(text, r.secondary)
}

// Filter returns the matching articles in their original order.
func (r *Relevance) Filter(articles []Article) []Article {
	var relevant []Article
	for _, a := range articles {
		if r.Match(a) {
			relevant = append(relevant, a)
		}
	}
	return relevant
}

func (r *Relevance) haystack(s string) string {
	if r.mode == MatchSubstring {
		return cases.Fold().String(s)
	}
	return " " + normalizeWords(s) + " "
}

func prepareKeywords(keywords []string, mode MatchMode) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if mode == MatchSubstring {
			k = cases.Fold().String(strings.TrimSpace(k))
			if k != "" {
				out = append(out, k)
			}
			continue
		}
		if k = normalizeWords(k); k != "" {
			out = append(out, " "+k+" ")
		}
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// normalizeWords case-folds s and collapses every run of non letter/digit
// runes into a single space.
func normalizeWords(s string) string {
	s = cases.Fold().String(s)
	b := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b = append(b, r)
		} else {
			b = append(b, ' ')
		}
	}
	return strings.Join(strings.Fields(string(b)), " ")
}
