// Package notify emails the site owner when a visitor uses the contact form.
package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/resend/resend-go/v3"

	"github.com/Zachkp/portfolio/internal/content"
)

// Notifier delivers one contact submission to the owner.
type Notifier interface {
	Notify(ctx context.Context, sub content.ContactSubmission) error
}

type Options struct {
	Owner        string // recipient
	From         string
	ResendAPIKey string
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPass     string
}

// New picks Resend when an API key is configured, SMTP when credentials are, and a
// logging no-op otherwise.
func New(opts Options) Notifier {
	switch {
	case opts.Owner == "":
		return Noop{}
	case opts.ResendAPIKey != "":
		return NewResend(opts.ResendAPIKey, opts.From, opts.Owner)
	case opts.SMTPUser != "" && opts.SMTPPass != "":
		return NewSMTP(opts.SMTPHost, opts.SMTPPort, opts.SMTPUser, opts.SMTPPass, opts.Owner)
	}
	return Noop{}
}

// Noop only logs that a message arrived.
type Noop struct{}

func (Noop) Notify(_ context.Context, sub content.ContactSubmission) error {
	slog.Info("contact message received", "subject", sub.Subject)
	return nil
}

func subjectLine(sub content.ContactSubmission) string {
	return fmt.Sprintf("Portfolio Contact: %s", oneLine(sub.Name))
}

func textBody(sub content.ContactSubmission) string {
	return fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Subject: %s
Message:
%s

---
Sent from your portfolio contact form
`, sub.Name, sub.Email, sub.Subject, sub.Message)
}

// oneLine keeps user input from injecting mail headers.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Resend sends through the Resend API.
type Resend struct {
	client *resend.Client
	from   string
	owner  string
}

func NewResend(apiKey, from, owner string) *Resend {
	return &Resend{client: resend.NewClient(apiKey), from: from, owner: owner}
}

func (r *Resend) Notify(ctx context.Context, sub content.ContactSubmission) error {
	if _, err := r.client.Emails.SendWithContext(ctx, r.request(sub)); err != nil {
		return fmt.Errorf("failed to send contact notification: %w", err)
	}
	return nil
}

func (r *Resend) request(sub content.ContactSubmission) *resend.SendEmailRequest {
	body := fmt.Sprintf(`<p><strong>%s</strong> &lt;%s&gt; wrote:</p>
<p><em>%s</em></p>
<pre style="font-family:inherit;white-space:pre-wrap">%s</pre>`,
		html.EscapeString(sub.Name),
		html.EscapeString(sub.Email),
		html.EscapeString(sub.Subject),
		html.EscapeString(sub.Message),
	)
	return &resend.SendEmailRequest{
		From:    fmt.Sprintf("Portfolio <%s>", r.from),
		To:      []string{r.owner},
		ReplyTo: oneLine(sub.Email),
		Subject: subjectLine(sub),
		Html:    body,
		Text:    textBody(sub),
	}
}

// SMTP sends with PLAIN auth over STARTTLS.
type SMTP struct {
	host, port string
	user, pass string
	owner      string
	send       func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(host, port, user, pass, owner string) *SMTP {
	if host == "" {
		host = "smtp.gmail.com"
	}
	if port == "" {
		port = "587"
	}
	return &SMTP{host: host, port: port, user: user, pass: pass, owner: owner, send: smtp.SendMail}
}

func (s *SMTP) Notify(_ context.Context, sub content.ContactSubmission) error {
	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	if err := s.send(s.host+":"+s.port, auth, s.user, []string{s.owner}, s.message(sub)); err != nil {
		return fmt.Errorf("sending mail via %s: %w", s.host, err)
	}
	slog.Info("contact notification sent", "via", "smtp")
	return nil
}

func (s *SMTP) message(sub content.ContactSubmission) []byte {
	return []byte("To: " + s.owner + "\r\n" +
		"Subject: " + subjectLine(sub) + "\r\n" +
		"From: " + s.user + "\r\n" +
		"Reply-To: " + oneLine(sub.Email) + "\r\n" +
		"\r\n" +
		textBody(sub) + "\r\n")
}
