package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// ErrNoRecipients is returned when a message has nobody to go to.
var ErrNoRecipients = errors.New("no recipients configured")

// Message is one HTML email.
type Message struct {
	Subject string
	HTML    string
}

// Mailer delivers a message. One attempt per call.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// SMTP sends mail through an authenticated relay. Port 465 uses implicit
// TLS; any other port upgrades with STARTTLS.
type SMTP struct {
	cfg SMTPConfig
	now func() time.Time
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	if cfg.Username == "" {
		cfg.Username = cfg.From
	}
	return &SMTP{cfg: cfg, now: time.Now}
}

func (m *SMTP) Send(ctx context.Context, msg Message) error {
	if len(m.cfg.To) == 0 {
		return ErrNoRecipients
	}
	if m.cfg.From == "" {
		return fmt.Errorf("sender address is required")
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	tlsCfg := &tls.Config{ServerName: m.cfg.Host}

	var (
		conn net.Conn
		err  error
	)
	if m.cfg.Port == 465 {
		conn, err = (&tls.Dialer{Config: tlsCfg}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if m.cfg.Port != 465 {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsCfg); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if m.cfg.Password != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	for _, rcpt := range m.cfg.To {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp RCPT TO %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	body, err := buildMessage(m.cfg.From, m.cfg.To, msg, m.now())
	if err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finishing message: %w", err)
	}

	return c.Quit()
}

// buildMessage renders RFC 5322 headers plus a quoted-printable HTML body.
func buildMessage(from string, to []string, msg Message, date time.Time) ([]byte, error) {
	var b bytes.Buffer
	header := func(k, v string) {
		fmt.Fprintf(&b, "%s: %s\r\n", k, v)
	}
	header("From", from)
	header("To", strings.Join(to, ", "))
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", date.Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="UTF-8"`)
	header("Content-Transfer-Encoding", "quoted-printable")
	b.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&b)
	if _, err := qp.Write([]byte(msg.HTML)); err != nil {
		return nil, fmt.Errorf("encoding body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("encoding body: %w", err)
	}
	return b.Bytes(), nil
}

// Writer prints messages instead of sending them, for dry runs.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (m *Writer) Send(ctx context.Context, msg Message) error {
	if _, err := fmt.Fprintf(m.w, "Subject: %s\n\n%s", msg.Subject, msg.HTML); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	return nil
}
