// Package digest turns the relevant articles into the day's digest text,
// falling back to a plain listing when the language model is unavailable.
package digest

import (
	"context"
	"strings"
	"time"

	"github.com/deusflow/aidigest/internal/logger"
	"github.com/deusflow/aidigest/internal/news"
)

// Kind tells the renderer how to treat Digest.Text.
type Kind int

const (
	// KindGenerated is markdown-like text written by the model.
	KindGenerated Kind = iota
	// KindFallback is an HTML listing built from the articles.
	KindFallback
)

func (k Kind) String() string {
	if k == KindFallback {
		return "fallback"
	}
	return "generated"
}

// Digest is the synthesized output for one run.
type Digest struct {
	Kind     Kind
	Text     string
	Articles int // articles the digest was built from
	Date     time.Time
}

// Generator is the text-generation backend.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Options struct {
	MaxPromptArticles   int
	MaxFallbackArticles int
	Timeout             time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

type Synthesizer struct {
	gen  Generator
	opts Options
}

// NewSynthesizer returns a Synthesizer. gen may be nil, in which case every
// digest is the fallback listing.
func NewSynthesizer(gen Generator, opts Options) *Synthesizer {
	if opts.MaxPromptArticles <= 0 {
		opts.MaxPromptArticles = 15
	}
	if opts.MaxFallbackArticles <= 0 {
		opts.MaxFallbackArticles = 15
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Synthesizer{gen: gen, opts: opts}
}

// Synthesize builds the digest for articles. It returns false only when
// articles is empty; a generation failure is absorbed by the fallback.
func (s *Synthesizer) Synthesize(ctx context.Context, articles []news.Article) (Digest, bool) {
	if len(articles) == 0 {
		return Digest{}, false
	}
	now := s.opts.Now()

	if s.gen == nil {
		logger.Warn("no text generator configured, using fallback digest")
		return s.fallback(articles, now), true
	}

	selected := articles
	if len(selected) > s.opts.MaxPromptArticles {
		selected = selected[:s.opts.MaxPromptArticles]
	}

	genCtx := ctx
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	logger.Info("generating digest", "articles", len(selected))
	text, err := s.gen.Generate(genCtx, BuildPrompt(selected, now))
	if err != nil {
		logger.Error("digest generation failed, using fallback", "error", err)
		return s.fallback(articles, now), true
	}
	if strings.TrimSpace(text) == "" {
		logger.Error("digest generation returned no text, using fallback")
		return s.fallback(articles, now), true
	}

	logger.Info("digest generated", "chars", len(text))
	return Digest{Kind: KindGenerated, Text: text, Articles: len(selected), Date: now}, true
}

func (s *Synthesizer) fallback(articles []news.Article, now time.Time) Digest {
	return Digest{
		Kind:     KindFallback,
		Text:     Fallback(articles, now, s.opts.MaxFallbackArticles),
		Articles: len(articles),
		Date:     now,
	}
}
