package contact

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Desk hands out one Form per visitor, keyed by the visitor's session id.
type Desk struct {
	sender   Sender
	notifier Notifier
	clock    clock.Clock
	subject  string

	mu    sync.Mutex
	forms map[string]*Form
}

func NewDesk(sender Sender, notifier Notifier, clk clock.Clock, defaultSubject string) *Desk {
	if clk == nil {
		clk = clock.New()
	}
	return &Desk{
		sender:   sender,
		notifier: notifier,
		clock:    clk,
		subject:  defaultSubject,
		forms:    map[string]*Form{},
	}
}

func (d *Desk) Form(visitor string) *Form {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, ok := d.forms[visitor]
	if !ok {
		f = NewForm(d.sender, d.notifier, d.clock, d.subject)
		d.forms[visitor] = f
	}
	return f
}

// Sweep forgets forms untouched for maxIdle, except those still submitting.
func (d *Desk) Sweep(maxIdle time.Duration) int {
	cutoff := d.clock.Now().Add(-maxIdle)

	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for id, f := range d.forms {
		if last, resting := f.idleSince(); resting && last.Before(cutoff) {
			delete(d.forms, id)
			n++
		}
	}
	return n
}
