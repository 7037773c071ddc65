// Package sections loads the public, read-only parts of the portfolio page.
package sections

import (
	"context"
	"log/slog"

	"github.com/Zachkp/portfolio/internal/content"
)

type State int

const (
	Loading State = iota
	Ready
	Empty
	// Failed renders like Empty; the distinction only reaches the logs and the markup's
	// data attribute.
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Section is one public block of the page backed by a content collection.
type Section struct {
	Kind        content.Kind
	Anchor      string
	Eyebrow     string
	Title       string
	Subtitle    string
	Skeletons   int
	LoadingText string
	EmptyText   string
}

// Placeholders ranges over the skeleton count in templates.
func (s Section) Placeholders() []int {
	out := make([]int, s.Skeletons)
	for i := range out {
		out[i] = i
	}
	return out
}

// All lists the sections in page order.
var All = []Section{
	{
		Kind:        content.Experience,
		Anchor:      "experience",
		Title:       "Professional Experience",
		Subtitle:    "My journey through the tech industry, contributing to various teams and building robust solutions.",
		Skeletons:   1,
		LoadingText: "Fetching career history...",
		EmptyText:   "No experience added yet.",
	},
	{
		Kind:      content.Education,
		Anchor:    "education",
		Eyebrow:   "Academic Path",
		Title:     "Education",
		Skeletons: 2,
		EmptyText: "Academic records are currently being updated.",
	},
	{
		Kind:      content.Projects,
		Anchor:    "projects",
		Title:     "Featured Projects",
		Skeletons: 6,
		EmptyText: "No projects found. Add some from the admin dashboard.",
	},
	{
		Kind:      content.Reviews,
		Anchor:    "testimonials",
		Eyebrow:   "Wall of Love",
		Title:     "Client Transmissions",
		Subtitle:  "Feedback from people I've collaborated with to build impactful digital experiences.",
		Skeletons: 3,
		EmptyText: "No client transmissions decoded yet.",
	},
}

// Lookup finds the section backed by kind.
func Lookup(kind string) (Section, bool) {
	for _, s := range All {
		if string(s.Kind) == kind {
			return s, true
		}
	}
	return Section{}, false
}

// Lister reads a collection from the content API.
type Lister interface {
	List(ctx context.Context, kind content.Kind, needsAuth bool) ([]content.Item, error)
}

// Result is a loaded section ready to render.
type Result struct {
	Section
	State State
	Items []content.Item
}

// Message is the text shown instead of items, if any.
func (r Result) Message() string {
	switch r.State {
	case Loading:
		return r.LoadingText
	case Empty, Failed:
		return r.EmptyText
	}
	return ""
}

type Service struct {
	api Lister
}

func NewService(api Lister) *Service {
	return &Service{api: api}
}

// Load fetches the section's collection. It never fails: errors are logged and the
// section falls back to its empty text. Items keep the order the API returned.
func (s *Service) Load(ctx context.Context, sec Section) Result {
	items, err := s.api.List(ctx, sec.Kind, false)
	switch {
	case err != nil:
		slog.Error("loading section", "section", sec.Anchor, "error", err)
		return Result{Section: sec, State: Failed}
	case len(items) == 0:
		return Result{Section: sec, State: Empty}
	}
	return Result{Section: sec, State: Ready, Items: items}
}

// Pending is the placeholder state rendered into the page before the fragment loads.
func Pending(sec Section) Result {
	return Result{Section: sec, State: Loading}
}
