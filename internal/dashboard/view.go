package dashboard

import (
	"time"

	"github.com/Zachkp/portfolio/internal/content"
)

// View is a consistent copy of the console state for rendering.
type View struct {
	Tab      content.Kind
	Tabs     []content.Kind
	Schema   content.Schema
	Items    []content.Item // filtered by Search
	Total    int
	Messages []content.Message
	Search   string

	Draft   content.Draft
	EditID  string
	Pending *Target

	ReplyTo    string
	ReplyDraft string
	Replying   bool

	Loading  bool
	Notice   string
	Failed   bool
	LoadedAt time.Time
	Stats    Stats
}

// Stats is the summary strip above the tabs.
type Stats struct {
	Content int // items in the active tab
	Mail    int
	Pending int
}

func (v View) Editing() bool { return v.EditID != "" }

// Confirming reports whether id is awaiting delete confirmation.
func (v View) Confirming(id string) bool {
	return v.Pending != nil && v.Pending.ID == id
}

func (c *Console) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Tab:        c.tab,
		Tabs:       content.Kinds,
		Schema:     content.SchemaFor(c.tab),
		Items:      content.Filter(c.items, c.search),
		Total:      len(c.items),
		Messages:   append([]content.Message(nil), c.messages...),
		Search:     c.search,
		Draft:      content.Draft{Kind: c.draft.Kind, Values: make(map[string]string, len(c.draft.Values))},
		EditID:     c.editID,
		ReplyTo:    c.replyTo,
		ReplyDraft: c.reply,
		Replying:   c.replying,
		Loading:    c.loading,
		Notice:     c.notice,
		Failed:     c.failed,
		LoadedAt:   c.loadedAt,
	}
	for k, val := range c.draft.Values {
		v.Draft.Values[k] = val
	}
	if c.deleting != nil {
		t := *c.deleting
		v.Pending = &t
	}
	v.Stats = Stats{Content: len(c.items), Mail: len(c.messages)}
	for _, m := range c.messages {
		if m.Status != content.StatusReplied {
			v.Stats.Pending++
		}
	}
	return v
}
