// Package dashboard holds the admin console: the per-session view state of the tabbed
// CRUD screen and the operations that move it between states.
//
// A Console never holds its lock across a call to the Backend. Refreshes are numbered;
// a refresh whose number is no longer the latest is canceled and its result dropped.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/portfolio/internal/api"
	"github.com/Zachkp/portfolio/internal/content"
)

// ReplyRequired is shown when a reply is sent without a body.
const ReplyRequired = "Please write a message first!"

var (
	ErrSuperseded      = errors.New("refresh superseded by a newer one")
	ErrNotFound        = errors.New("item not found in the current list")
	ErrReadOnly        = errors.New("resource is read-only")
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")
	ErrAlreadyReplied  = errors.New("message already replied to")
	ErrReplyInFlight   = errors.New("reply already being sent")
)

// Backend is the authenticated content API as the console uses it.
type Backend interface {
	List(ctx context.Context, kind content.Kind) ([]content.Item, error)
	ListMessages(ctx context.Context) ([]content.Message, error)
	Create(ctx context.Context, kind content.Kind, payload content.Item, image *content.Upload) error
	Update(ctx context.Context, kind content.Kind, id string, payload content.Item, image *content.Upload) error
	Delete(ctx context.Context, kind content.Kind, id string) error
	Reply(ctx context.Context, r content.Reply) error
}

// Target names one item awaiting delete confirmation.
type Target struct {
	Kind content.Kind
	ID   string
}

type Console struct {
	backend Backend

	mu       sync.Mutex
	tab      content.Kind
	items    []content.Item
	messages []content.Message
	search   string
	draft    content.Draft
	editID   string
	deleting *Target
	replyTo  string
	reply    string
	replying bool
	loading  bool
	notice   string
	failed   bool
	loadedAt time.Time

	gen    uint64
	cancel context.CancelFunc
}

func NewConsole(b Backend) *Console {
	return &Console{
		backend: b,
		tab:     content.Projects,
		draft:   content.NewDraft(content.Projects),
	}
}

// SwitchTab makes kind the active resource type. Any edit, draft, pending delete and
// reply draft are dropped before the new lists are fetched.
func (c *Console) SwitchTab(ctx context.Context, kind content.Kind) error {
	c.mu.Lock()
	c.tab = kind
	c.items = nil
	c.search = ""
	c.resetFormLocked()
	c.deleting = nil
	c.replyTo, c.reply = "", ""
	c.notice, c.failed = "", false
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Refresh refetches the active list and the messages list together. A refresh started
// later cancels this one; in that case ErrSuperseded is returned and nothing is applied.
func (c *Console) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	kind := c.tab
	c.loading = true
	c.mu.Unlock()
	defer cancel()

	var (
		items []content.Item
		msgs  []content.Message
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		msgs, err = c.backend.ListMessages(gctx)
		return err
	})
	if kind != content.Messages {
		g.Go(func() error {
			var err error
			items, err = c.backend.List(gctx, kind)
			return err
		})
	}
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return ErrSuperseded
	}
	c.cancel = nil
	c.loading = false
	if err != nil {
		c.failLocked(err)
		return fmt.Errorf("refreshing %s: %w", kind, err)
	}
	if kind == content.Messages {
		items = make([]content.Item, len(msgs))
		for i, m := range msgs {
			items[i] = m
		}
	}
	c.items = items
	c.messages = msgs
	c.loadedAt = time.Now()
	return nil
}

// SetSearch filters the displayed list. It never refetches.
func (c *Console) SetSearch(q string) {
	c.mu.Lock()
	c.search = q
	c.mu.Unlock()
}

// Submit posts values as a new item, or as an update when an edit is in progress.
// Invalid values leave the draft in place and return a *content.ValidationError.
// image is dropped unless the tab's schema takes uploads.
func (c *Console) Submit(ctx context.Context, values map[string]string, image *content.Upload) error {
	c.mu.Lock()
	schema := content.SchemaFor(c.tab)
	if schema.ReadOnly {
		c.mu.Unlock()
		return ErrReadOnly
	}
	draft := content.NewDraft(c.tab)
	for _, f := range schema.Fields() {
		draft.Set(f.Name, values[f.Name])
	}
	c.draft = draft
	c.notice, c.failed = "", false

	payload, err := schema.Payload(draft)
	if err == nil {
		image, err = checkUpload(schema, image)
	}
	if err != nil {
		c.failLocked(err)
		c.mu.Unlock()
		return err
	}
	kind, id := c.tab, c.editID
	c.mu.Unlock()

	if id != "" {
		err = c.backend.Update(ctx, kind, id, payload, image)
	} else {
		err = c.backend.Create(ctx, kind, payload, image)
	}
	if err != nil {
		c.fail(err)
		return fmt.Errorf("saving %s: %w", kind, err)
	}

	c.mu.Lock()
	if c.tab == kind {
		c.resetFormLocked()
	}
	c.mu.Unlock()
	return c.Refresh(ctx)
}

func checkUpload(schema content.Schema, image *content.Upload) (*content.Upload, error) {
	if schema.Upload == "" || image == nil || len(image.Data) == 0 {
		return nil, nil
	}
	if len(image.Data) > content.MaxUploadSize {
		return nil, content.UploadTooLarge(schema.Upload)
	}
	return image, nil
}

// Reject shows err as a form failure without calling the backend. Handlers use it for
// input they refuse before it reaches Submit.
func (c *Console) Reject(err error) {
	c.fail(err)
}

// Edit loads the item with id from the current list into the draft.
func (c *Console) Edit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	schema := content.SchemaFor(c.tab)
	if schema.ReadOnly {
		return ErrReadOnly
	}
	item, ok := c.findLocked(id)
	if !ok {
		return ErrNotFound
	}
	c.editID = id
	c.draft = schema.DraftOf(item)
	c.notice, c.failed = "", false
	return nil
}

// CancelEdit abandons the edit and clears the draft.
func (c *Console) CancelEdit() {
	c.mu.Lock()
	c.resetFormLocked()
	c.mu.Unlock()
}

// RequestDelete records the item awaiting confirmation. No call is made.
func (c *Console) RequestDelete(kind content.Kind, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if kind != c.tab && kind != content.Messages {
		return ErrNotFound
	}
	if kind == content.Messages {
		if _, ok := c.findMessageLocked(id); !ok {
			return ErrNotFound
		}
	} else if _, ok := c.findLocked(id); !ok {
		return ErrNotFound
	}
	c.deleting = &Target{Kind: kind, ID: id}
	return nil
}

// CancelDelete drops the pending confirmation. No call is made.
func (c *Console) CancelDelete() {
	c.mu.Lock()
	c.deleting = nil
	c.mu.Unlock()
}

// ConfirmDelete deletes the pending item and refetches.
func (c *Console) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	t := c.deleting
	c.deleting = nil
	c.notice, c.failed = "", false
	c.mu.Unlock()
	if t == nil {
		return ErrNoPendingDelete
	}

	if err := c.backend.Delete(ctx, t.Kind, t.ID); err != nil {
		c.fail(err)
		return fmt.Errorf("deleting %s %s: %w", t.Kind, t.ID, err)
	}

	c.mu.Lock()
	if c.editID == t.ID {
		c.resetFormLocked()
	}
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// ToggleReply opens the reply box of message id, or closes it if it is already open.
// The reply draft starts empty either way.
func (c *Console) ToggleReply(id string) {
	c.mu.Lock()
	if c.replyTo == id {
		c.replyTo = ""
	} else {
		c.replyTo = id
	}
	c.reply = ""
	c.mu.Unlock()
}

// SendReply answers message id with body. An empty body fails validation without a call.
func (c *Console) SendReply(ctx context.Context, id, body string) error {
	c.mu.Lock()
	c.reply = body
	if strings.TrimSpace(body) == "" {
		err := &content.ValidationError{Field: "reply", Message: ReplyRequired}
		c.failLocked(err)
		c.mu.Unlock()
		return err
	}
	m, ok := c.findMessageLocked(id)
	switch {
	case !ok:
		c.mu.Unlock()
		return ErrNotFound
	case m.Replied():
		c.mu.Unlock()
		return ErrAlreadyReplied
	case c.replying:
		c.mu.Unlock()
		return ErrReplyInFlight
	}
	c.replying = true
	c.notice, c.failed = "", false
	c.mu.Unlock()

	err := c.backend.Reply(ctx, content.NewReply(m, strings.TrimSpace(body)))

	c.mu.Lock()
	c.replying = false
	if err != nil {
		c.failLocked(err)
		c.mu.Unlock()
		return fmt.Errorf("replying to %s: %w", id, err)
	}
	c.replyTo, c.reply = "", ""
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Close cancels any refresh in flight.
func (c *Console) Close() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()
}

func (c *Console) resetFormLocked() {
	c.editID = ""
	c.draft = content.NewDraft(c.tab)
}

func (c *Console) fail(err error) {
	c.mu.Lock()
	c.failLocked(err)
	c.mu.Unlock()
}

func (c *Console) failLocked(err error) {
	var ve *content.ValidationError
	if errors.As(err, &ve) {
		c.notice = ve.Message
	} else {
		c.notice = api.Message(err, "")
	}
	c.failed = true
}

func (c *Console) findLocked(id string) (content.Item, bool) {
	for _, it := range c.items {
		if it.ItemID() == id {
			return it, true
		}
	}
	return nil, false
}

func (c *Console) findMessageLocked(id string) (content.Message, bool) {
	for _, m := range c.messages {
		if m.ID == id {
			return m, true
		}
	}
	return content.Message{}, false
}
