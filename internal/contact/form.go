// Package contact runs the public contact form: it relays submissions to the content API
// and tells the site owner about them.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/Zachkp/portfolio/internal/api"
	"github.com/Zachkp/portfolio/internal/content"
)

// RevertAfter is how long the success state is shown before the form is idle again.
const RevertAfter = 5 * time.Second

const incompleteMessage = "Please fill in your name, a valid email and a message."

var ErrBusy = errors.New("contact form is already submitting")

type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Sender relays a submission to the content API.
type Sender interface {
	SendContact(ctx context.Context, sub content.ContactSubmission) error
}

// Notifier tells the site owner about an accepted submission.
type Notifier interface {
	Notify(ctx context.Context, sub content.ContactSubmission) error
}

// View is a copy of the form for rendering.
type View struct {
	State  State
	Fields content.ContactSubmission
	Error  string
}

// Form is the contact form of one visitor.
type Form struct {
	sender   Sender
	notifier Notifier
	clock    clock.Clock
	subject  string

	mu       sync.Mutex
	state    State
	fields   content.ContactSubmission
	errMsg   string
	seq      uint64
	revert   *clock.Timer
	lastUsed time.Time
}

func NewForm(sender Sender, notifier Notifier, clk clock.Clock, defaultSubject string) *Form {
	if clk == nil {
		clk = clock.New()
	}
	return &Form{
		sender:   sender,
		notifier: notifier,
		clock:    clk,
		subject:  defaultSubject,
		fields:   content.ContactSubmission{Subject: defaultSubject},
		lastUsed: clk.Now(),
	}
}

// Submit sends sub. While a submission is outstanding further submits get ErrBusy.
// On success every field but the subject is cleared and the form returns to Idle after
// RevertAfter. On failure the entered values stay and the error is kept until the next
// submit.
func (f *Form) Submit(ctx context.Context, sub content.ContactSubmission) error {
	sub = normalize(sub, f.subject)

	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return ErrBusy
	}
	f.seq++
	if f.revert != nil {
		f.revert.Stop()
		f.revert = nil
	}
	f.fields = sub
	f.errMsg = ""
	f.lastUsed = f.clock.Now()
	if err := validate(sub); err != nil {
		f.state = Failed
		f.errMsg = incompleteMessage
		f.mu.Unlock()
		return err
	}
	f.state = Submitting
	seq := f.seq
	f.mu.Unlock()

	err := f.sender.SendContact(ctx, sub)

	f.mu.Lock()
	if err != nil {
		f.state = Failed
		f.errMsg = api.Message(err, "")
		f.mu.Unlock()
		return fmt.Errorf("sending contact message: %w", err)
	}
	f.state = Succeeded
	f.fields = content.ContactSubmission{Subject: sub.Subject}
	f.revert = f.clock.AfterFunc(RevertAfter, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.seq == seq && f.state == Succeeded {
			f.state = Idle
			f.revert = nil
		}
	})
	f.mu.Unlock()

	if f.notifier != nil {
		if err := f.notifier.Notify(context.WithoutCancel(ctx), sub); err != nil {
			slog.Error("notifying owner of contact message", "error", err)
		}
	}
	return nil
}

func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return View{State: f.state, Fields: f.fields, Error: f.errMsg}
}

// idleSince reports when the form was last submitted, if it is at rest.
func (f *Form) idleSince() (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastUsed, f.state != Submitting
}

func normalize(sub content.ContactSubmission, defaultSubject string) content.ContactSubmission {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Subject = strings.TrimSpace(sub.Subject)
	if sub.Subject == "" {
		sub.Subject = defaultSubject
	}
	return sub
}

func validate(sub content.ContactSubmission) error {
	if sub.Name == "" || sub.Email == "" || strings.TrimSpace(sub.Message) == "" {
		return &content.ValidationError{Message: incompleteMessage}
	}
	if _, err := mail.ParseAddress(sub.Email); err != nil {
		return &content.ValidationError{Field: "email", Message: incompleteMessage}
	}
	return nil
}
