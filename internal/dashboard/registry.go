package dashboard

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Registry keeps one Console per admin session, keyed by the session's client id.
type Registry struct {
	backend Backend
	clock   clock.Clock

	mu       sync.Mutex
	consoles map[string]*entry
}

type entry struct {
	console  *Console
	lastUsed time.Time
}

func NewRegistry(b Backend, clk clock.Clock) *Registry {
	if clk == nil {
		clk = clock.New()
	}
	return &Registry{backend: b, clock: clk, consoles: map[string]*entry{}}
}

// Get returns the console of id, creating it on first use. The bool reports whether it
// was just created and so has never been loaded.
func (r *Registry) Get(id string) (*Console, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.consoles[id]
	if !ok {
		e = &entry{console: NewConsole(r.backend)}
		r.consoles[id] = e
	}
	e.lastUsed = r.clock.Now()
	return e.console, !ok
}

// Drop forgets the console of id, e.g. after sign-out or a rejected token.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	e, ok := r.consoles[id]
	delete(r.consoles, id)
	r.mu.Unlock()
	if ok {
		e.console.Close()
	}
}

// Sweep drops consoles unused for longer than maxIdle and returns how many went.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.clock.Now().Add(-maxIdle)

	r.mu.Lock()
	var stale []*Console
	for id, e := range r.consoles {
		if e.lastUsed.Before(cutoff) {
			stale = append(stale, e.console)
			delete(r.consoles, id)
		}
	}
	r.mu.Unlock()

	for _, c := range stale {
		c.Close()
	}
	return len(stale)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.consoles)
}
