package app

import (
	"context"
	"fmt"
	"time"

	"github.com/deusflow/aidigest/internal/digest"
	"github.com/deusflow/aidigest/internal/logger"
	"github.com/deusflow/aidigest/internal/mailer"
	"github.com/deusflow/aidigest/internal/render"
)

// Dispatcher composes subjects and hands messages to the mailer.
type Dispatcher struct {
	mailer  mailer.Mailer
	timeout time.Duration
	now     func() time.Time
}

func NewDispatcher(m mailer.Mailer, timeout time.Duration, now func() time.Time) *Dispatcher {
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{mailer: m, timeout: timeout, now: now}
}

// DigestSubject is the subject line for a digest of count articles.
func DigestSubject(date time.Time, count int) string {
	noun := "articles"
	if count == 1 {
		noun = "article"
	}
	return fmt.Sprintf("🤖 %s - %s (%d %s)", digest.Title, date.Format("2006-01-02"), count, noun)
}

// NoMatchesSubject is the subject line of the status notification.
func NoMatchesSubject(date time.Time) string {
	return fmt.Sprintf("📭 %s - %s: no matches today", digest.Title, date.Format("2006-01-02"))
}

// SendDigest mails the rendered digest and returns the subject used.
func (d *Dispatcher) SendDigest(ctx context.Context, count int, body string) (string, error) {
	subject := DigestSubject(d.now(), count)
	return subject, d.send(ctx, subject, body)
}

// SendNoMatches mails the status notice sent when no article was relevant.
func (d *Dispatcher) SendNoMatches(ctx context.Context, scanned int) (string, error) {
	subject := NoMatchesSubject(d.now())
	body := render.Status("📭 No matching articles today",
		fmt.Sprintf("Scanned %d recent articles; none mentioned both AI and disability/accessibility topics. The digest will try again on the next run.", scanned))
	return subject, d.send(ctx, subject, body)
}

func (d *Dispatcher) send(ctx context.Context, subject, body string) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	logger.Info("sending email", "subject", subject, "bytes", len(body))
	if err := d.mailer.Send(ctx, mailer.Message{Subject: subject, HTML: body}); err != nil {
		return fmt.Errorf("email sending failed: %w", err)
	}
	logger.Info("email sent", "subject", subject)
	return nil
}
