package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Item is the common view of every resource the console lists.
type Item interface {
	ItemID() string
	// Primary is the label searched and shown first (title, role, degree, ...).
	Primary() string
	// Secondary is the label shown under the primary one.
	Secondary() string
}

type Project struct {
	ID          string   `json:"_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TechStack   []string `json:"techStack"`
	GithubLink  string   `json:"githubLink"`
	LiveLink    string   `json:"liveLink"`
	Image       string   `json:"image,omitempty"`
}

func (p Project) ItemID() string    { return p.ID }
func (p Project) Primary() string   { return p.Title }
func (p Project) Secondary() string { return strings.Join(p.TechStack, ", ") }

type ExperienceEntry struct {
	ID          string `json:"_id,omitempty"`
	Role        string `json:"role"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
	Type        string `json:"type,omitempty"`
}

func (e ExperienceEntry) ItemID() string    { return e.ID }
func (e ExperienceEntry) Primary() string   { return e.Role }
func (e ExperienceEntry) Secondary() string { return e.Company }

// EmploymentType falls back to "Full Time" when the API has none.
func (e ExperienceEntry) EmploymentType() string {
	if e.Type == "" {
		return "Full Time"
	}
	return e.Type
}

type EducationEntry struct {
	ID          string `json:"_id,omitempty"`
	Degree      string `json:"degree"`
	Institute   string `json:"institute"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

func (e EducationEntry) ItemID() string    { return e.ID }
func (e EducationEntry) Primary() string   { return e.Degree }
func (e EducationEntry) Secondary() string { return e.Institute }

type Review struct {
	ID         string `json:"_id,omitempty"`
	ClientName string `json:"clientName"`
	ClientRole string `json:"clientRole"`
	Rating     Rating `json:"rating"`
	ReviewText string `json:"reviewText"`
}

func (r Review) ItemID() string    { return r.ID }
func (r Review) Primary() string   { return r.ClientName }
func (r Review) Secondary() string { return r.ClientRole }

// Role falls back to "Satisfied Client" when the reviewer gave none.
func (r Review) Role() string {
	if r.ClientRole == "" {
		return "Satisfied Client"
	}
	return r.ClientRole
}

// MaxStars is the most stars a review can show.
const MaxStars = 5

// Stars is the number of stars to draw. Unrated reviews show five and ratings above
// five are capped.
func (r Review) Stars() int {
	if r.Rating <= 0 || r.Rating > MaxStars {
		return MaxStars
	}
	return int(r.Rating)
}

// Rating is a review score. The API has been seen sending it both as a number and as a
// numeric string, so decoding accepts either; encoding always produces a number.
type Rating int

func (r *Rating) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*r = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("rating %q: %w", s, err)
		}
		*r = Rating(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*r = Rating(n)
	return nil
}

type MessageStatus string

const (
	StatusPending MessageStatus = "Pending"
	StatusReplied MessageStatus = "Replied"
)

// Message is a contact-form submission as stored by the API.
type Message struct {
	ID        string        `json:"_id,omitempty"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Subject   string        `json:"subject"`
	Body      string        `json:"message"`
	Status    MessageStatus `json:"status"`
	ReplyText string        `json:"replyText,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

func (m Message) ItemID() string    { return m.ID }
func (m Message) Primary() string   { return m.Name }
func (m Message) Secondary() string { return m.Email }

// Replied reports whether a reply has been delivered. Replies are never edited afterwards.
func (m Message) Replied() bool {
	return m.Status == StatusReplied && m.ReplyText != ""
}

// Initial is the avatar letter for the sender.
func (m Message) Initial() string {
	for _, r := range m.Name {
		return strings.ToUpper(string(r))
	}
	return "?"
}

// Reply is the payload of POST /messages/reply.
type Reply struct {
	ID      string `json:"id"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// NewReply addresses body to the sender of m.
func NewReply(m Message, body string) Reply {
	return Reply{
		ID:      m.ID,
		To:      m.Email,
		Subject: "Re: " + m.Subject,
		Message: body,
	}
}

// ContactSubmission is the payload of POST /contact.
type ContactSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Filter keeps the items whose primary label contains q, ignoring case.
func Filter(items []Item, q string) []Item {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Primary()), q) {
			out = append(out, it)
		}
	}
	return out
}
