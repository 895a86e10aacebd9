package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/deusflow/aidigest/internal/config"
	"github.com/deusflow/aidigest/internal/digest"
	"github.com/deusflow/aidigest/internal/gemini"
	"github.com/deusflow/aidigest/internal/logger"
	"github.com/deusflow/aidigest/internal/mailer"
	"github.com/deusflow/aidigest/internal/metrics"
	"github.com/deusflow/aidigest/internal/news"
	"github.com/deusflow/aidigest/internal/ratelimit"
	"github.com/deusflow/aidigest/internal/render"
	"github.com/deusflow/aidigest/internal/rss"
)

// Outcome is how a run ended.
type Outcome int

const (
	// OutcomeNoArticles: every source failed or was empty; nothing is sent.
	OutcomeNoArticles Outcome = iota
	// OutcomeNoMatches: articles were collected but none was relevant; a status mail is sent.
	OutcomeNoMatches
	// OutcomeSent: a digest was sent.
	OutcomeSent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoMatches:
		return "no-matches"
	case OutcomeSent:
		return "sent"
	default:
		return "no-articles"
	}
}

// Report summarizes one pipeline pass.
type Report struct {
	Outcome   Outcome
	Collected int
	Relevant  int
	Kind      digest.Kind
	Subject   string
}

// Pipeline wires the stages together. All fields are required.
type Pipeline struct {
	Sources    []rss.Source
	Collector  *news.Collector
	Relevance  *news.Relevance
	Synth      *digest.Synthesizer
	Dispatcher *Dispatcher
	Metrics    *metrics.Metrics
}

// Run performs one collect, filter, synthesize, render and dispatch pass.
// Only a delivery failure is returned as an error.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	startTime := time.Now()
	defer func() {
		p.Metrics.RecordProcessingTime(time.Since(startTime))
		p.Metrics.SetLastRun()
	}()

	var rep Report

	collected := p.Collector.Collect(ctx, p.Sources)
	p.Metrics.RecordCollection(len(p.Sources)-len(collected.FailedSources), len(collected.FailedSources),
		collected.RawEntries, collected.Stale, collected.Duplicates, len(collected.Articles))
	rep.Collected = len(collected.Articles)
	if rep.Collected == 0 {
		logger.Warn("no articles found, exiting")
		rep.Outcome = OutcomeNoArticles
		return rep, nil
	}

	relevant := p.Relevance.Filter(collected.Articles)
	p.Metrics.RecordRelevant(len(relevant))
	rep.Relevant = len(relevant)
	logger.Info("relevance filter applied", "collected", rep.Collected, "relevant", rep.Relevant)

	if rep.Relevant == 0 {
		rep.Outcome = OutcomeNoMatches
		subject, err := p.Dispatcher.SendNoMatches(ctx, rep.Collected)
		rep.Subject = subject
		return rep, p.delivered(err)
	}

	d, ok := p.Synth.Synthesize(ctx, relevant)
	if !ok {
		// Synthesize only declines empty input, which was handled above.
		return rep, fmt.Errorf("digest synthesis returned nothing for %d articles", rep.Relevant)
	}
	rep.Kind = d.Kind
	if d.Kind == digest.KindFallback {
		p.Metrics.IncrementFallback()
	} else {
		p.Metrics.IncrementGenerated()
	}

	body := render.Document(d)
	subject, err := p.Dispatcher.SendDigest(ctx, rep.Relevant, body)
	rep.Subject = subject
	rep.Outcome = OutcomeSent
	return rep, p.delivered(err)
}

func (p *Pipeline) delivered(err error) error {
	if err != nil {
		p.Metrics.IncrementEmailsFailed()
		p.Metrics.SetError(err.Error())
		return err
	}
	p.Metrics.IncrementEmailsSent()
	return nil
}

// RunOptions adjusts a run from the command line.
type RunOptions struct {
	// DryRun writes the email to Out instead of sending it.
	DryRun bool
	Out    io.Writer
}

// Run builds the pipeline from cfg and performs one pass.
func Run(ctx context.Context, cfg *config.Config, opts RunOptions) (Report, error) {
	feeds, err := rss.LoadFeeds(cfg.SourcesConfigPath)
	if err != nil {
		return Report{}, fmt.Errorf("loading sources: %w", err)
	}
	logger.Info("starting digest run",
		"sources", len(feeds.Sources),
		"window_days", cfg.WindowDays,
		"dry_run", opts.DryRun)

	for _, name := range cfg.MissingCredentials() {
		logger.Warn("credential not set", "variable", name)
	}

	hosts := ratelimit.NewHostLimiter(cfg.FeedHostInterval)
	parser := rss.NewParser(cfg.FeedUserAgent, cfg.FetchTimeout).WithHostLimiter(hosts)
	collector := news.NewCollector(parser, news.CollectOptions{
		Window:          cfg.Window(),
		PerSourceLimit:  cfg.PerSourceLimit,
		SummaryMaxChars: cfg.SummaryMaxChars,
		Concurrency:     cfg.FetchConcurrency,
		FetchTimeout:    cfg.FetchTimeout,
	})
	relevance := news.NewRelevance(feeds.Topics.AI, feeds.Topics.Accessibility, news.ParseMatchMode(cfg.KeywordMatch))

	var gen digest.Generator
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("gemini client unavailable, digest will use the fallback listing", "error", err)
		} else {
			defer client.Close()
			gen = client
		}
	}
	synth := digest.NewSynthesizer(gen, digest.Options{
		MaxPromptArticles:   cfg.MaxPromptArticles,
		MaxFallbackArticles: cfg.MaxFallbackArticles,
		Timeout:             cfg.GenerateTimeout,
	})

	var m mailer.Mailer
	if opts.DryRun {
		m = mailer.NewWriter(opts.Out)
	} else {
		m = mailer.NewSMTP(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Password: cfg.EmailPassword,
			From:     cfg.EmailFrom,
			To:       cfg.EmailTo,
		})
	}

	stats := metrics.New()
	p := &Pipeline{
		Sources:    feeds.Sources,
		Collector:  collector,
		Relevance:  relevance,
		Synth:      synth,
		Dispatcher: NewDispatcher(m, cfg.SendTimeout, nil),
		Metrics:    stats,
	}

	rep, err := p.Run(ctx)
	stats.Log()
	logger.Debug("feed host limiter", "stats", hosts.GetStats())
	if err != nil {
		return rep, err
	}
	logger.Info("digest run complete", "outcome", rep.Outcome.String(), "digest", rep.Kind.String(), "subject", rep.Subject)
	return rep, nil
}
