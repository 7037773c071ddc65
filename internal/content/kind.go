// Package content holds the portfolio's resource types and the per-resource form schemas
// the admin console edits them with.
package content

import "fmt"

// Kind identifies a resource type served by the content API.
type Kind string

const (
	Projects   Kind = "projects"
	Experience Kind = "experience"
	Education  Kind = "education"
	Reviews    Kind = "reviews"
	Messages   Kind = "messages"
)

// Kinds lists every resource type in tab order.
var Kinds = []Kind{Projects, Experience, Education, Reviews, Messages}

// ParseKind validates s against the known resource types.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown resource type %q", s)
}

// Path is the collection path on the content API, e.g. "/projects".
func (k Kind) Path() string {
	return "/" + string(k)
}

// ItemPath is the path of a single item, e.g. "/projects/42".
func (k Kind) ItemPath(id string) string {
	return k.Path() + "/" + id
}

// Protected reports whether even reading the collection requires the admin token.
func (k Kind) Protected() bool {
	return k == Messages
}

// Envelope is the field name the API may wrap this collection in.
func (k Kind) Envelope() string {
	if k == Messages {
		return "messages"
	}
	return "data"
}

// Label is the human readable tab name.
func (k Kind) Label() string {
	switch k {
	case Projects:
		return "Projects"
	case Experience:
		return "Experience"
	case Education:
		return "Education"
	case Reviews:
		return "Reviews"
	case Messages:
		return "Messages"
	}
	return string(k)
}
