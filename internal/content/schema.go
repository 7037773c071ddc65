package content

import (
	"fmt"
	"strconv"
	"strings"
)

// Field describes one input of a resource form.
type Field struct {
	Name        string
	Label       string
	Placeholder string
	Input       string // html input type, "textarea" for multi-line
	Required    bool
	ReadOnly    bool
}

// ValidationError reports a draft field the console refused to submit.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Draft is the unsaved state of a create or edit form, keyed by field name.
type Draft struct {
	Kind   Kind
	Values map[string]string
}

func NewDraft(k Kind) Draft {
	return Draft{Kind: k, Values: map[string]string{}}
}

func (d Draft) Get(name string) string {
	return d.Values[name]
}

func (d *Draft) Set(name, value string) {
	if d.Values == nil {
		d.Values = map[string]string{}
	}
	d.Values[name] = value
}

// IsZero reports whether nothing has been typed into the draft.
func (d Draft) IsZero() bool {
	for _, v := range d.Values {
		if v != "" {
			return false
		}
	}
	return true
}

// Schema is the form definition of a resource type: what the inputs are and how a
// draft turns into the typed payload the API receives.
type Schema struct {
	Kind      Kind
	Primary   Field
	Secondary Field
	Extra     []Field
	// ReadOnly schemas have no create or edit form.
	ReadOnly bool
	// Upload names the file input of schemas that accept an image upload.
	Upload string

	build func(Draft) (Item, error)
	fill  func(Item) map[string]string
}

// Fields returns every input in display order.
func (s Schema) Fields() []Field {
	out := make([]Field, 0, 2+len(s.Extra))
	out = append(out, s.Primary, s.Secondary)
	return append(out, s.Extra...)
}

// Payload validates d and converts it into the resource's typed value.
func (s Schema) Payload(d Draft) (Item, error) {
	if s.ReadOnly || s.build == nil {
		return nil, fmt.Errorf("%s cannot be created or edited", s.Kind.Label())
	}
	if d.Kind != s.Kind {
		return nil, fmt.Errorf("draft for %s submitted as %s", d.Kind, s.Kind)
	}
	for _, f := range s.Fields() {
		if f.Required && strings.TrimSpace(d.Get(f.Name)) == "" {
			return nil, &ValidationError{Field: f.Name, Message: f.Label + " is required"}
		}
	}
	return s.build(d)
}

// DraftOf fills a draft from an existing item for editing.
func (s Schema) DraftOf(item Item) Draft {
	d := NewDraft(s.Kind)
	if s.fill == nil || item == nil {
		return d
	}
	for k, v := range s.fill(item) {
		d.Values[k] = v
	}
	return d
}

// SchemaFor returns the form schema of k.
func SchemaFor(k Kind) Schema {
	if s, ok := schemas[k]; ok {
		return s
	}
	return Schema{Kind: k, ReadOnly: true}
}

// SplitTechStack turns "React, Node.js" into ["React", "Node.js"], dropping empty entries.
func SplitTechStack(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinTechStack is the inverse of SplitTechStack for the edit form.
func JoinTechStack(stack []string) string {
	return strings.Join(stack, ", ")
}

// ParseRating converts the rating input to a number. The 1–5 range is only an input hint;
// the API owns validation of the value itself.
func ParseRating(s string) (Rating, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ValidationError{Field: "rating", Message: "Rating must be a whole number"}
	}
	return Rating(n), nil
}

var schemas = map[Kind]Schema{
	Projects: {
		Kind:      Projects,
		Primary:   Field{Name: "title", Label: "Project Title", Input: "text", Required: true},
		Secondary: Field{Name: "techStack", Label: "Tech Stack (Comma separated)", Placeholder: "React, Node.js, MongoDB", Input: "text", Required: true},
		Upload:    "imageFile",
		Extra: []Field{
			{Name: "githubLink", Label: "GitHub Link", Placeholder: "https://github.com/...", Input: "url"},
			{Name: "liveLink", Label: "Live Link", Placeholder: "https://project.vercel.app", Input: "url"},
			{Name: "image", Label: "Image URL", Placeholder: "/uploads/cover.png", Input: "text"},
			{Name: "imageFile", Label: "Upload Image", Input: "file"},
			{Name: "description", Label: "Description", Input: "textarea"},
		},
		build: func(d Draft) (Item, error) {
			return Project{
				Title:       strings.TrimSpace(d.Get("title")),
				TechStack:   SplitTechStack(d.Get("techStack")),
				GithubLink:  strings.TrimSpace(d.Get("githubLink")),
				LiveLink:    strings.TrimSpace(d.Get("liveLink")),
				Image:       strings.TrimSpace(d.Get("image")),
				Description: d.Get("description"),
			}, nil
		},
		fill: func(it Item) map[string]string {
			p, _ := it.(Project)
			return map[string]string{
				"title":       p.Title,
				"techStack":   JoinTechStack(p.TechStack),
				"githubLink":  p.GithubLink,
				"liveLink":    p.LiveLink,
				"image":       p.Image,
				"description": p.Description,
			}
		},
	},
	Experience: {
		Kind:      Experience,
		Primary:   Field{Name: "role", Label: "Role", Input: "text", Required: true},
		Secondary: Field{Name: "company", Label: "Company", Input: "text", Required: true},
		Extra: []Field{
			{Name: "type", Label: "Employment Type", Placeholder: "Full Time", Input: "text"},
			{Name: "duration", Label: "Duration", Placeholder: "e.g. 2021 - 2024", Input: "text"},
			{Name: "description", Label: "Description", Input: "textarea"},
		},
		build: func(d Draft) (Item, error) {
			return ExperienceEntry{
				Role:        strings.TrimSpace(d.Get("role")),
				Company:     strings.TrimSpace(d.Get("company")),
				Type:        strings.TrimSpace(d.Get("type")),
				Duration:    strings.TrimSpace(d.Get("duration")),
				Description: d.Get("description"),
			}, nil
		},
		fill: func(it Item) map[string]string {
			e, _ := it.(ExperienceEntry)
			return map[string]string{
				"role":        e.Role,
				"company":     e.Company,
				"type":        e.Type,
				"duration":    e.Duration,
				"description": e.Description,
			}
		},
	},
	Education: {
		Kind:      Education,
		Primary:   Field{Name: "degree", Label: "Degree", Input: "text", Required: true},
		Secondary: Field{Name: "institute", Label: "Institute", Input: "text", Required: true},
		Extra: []Field{
			{Name: "duration", Label: "Duration", Placeholder: "e.g. 2021 - 2024", Input: "text"},
			{Name: "description", Label: "Description", Input: "textarea"},
		},
		build: func(d Draft) (Item, error) {
			return EducationEntry{
				Degree:      strings.TrimSpace(d.Get("degree")),
				Institute:   strings.TrimSpace(d.Get("institute")),
				Duration:    strings.TrimSpace(d.Get("duration")),
				Description: d.Get("description"),
			}, nil
		},
		fill: func(it Item) map[string]string {
			e, _ := it.(EducationEntry)
			return map[string]string{
				"degree":      e.Degree,
				"institute":   e.Institute,
				"duration":    e.Duration,
				"description": e.Description,
			}
		},
	},
	Reviews: {
		Kind:      Reviews,
		Primary:   Field{Name: "clientName", Label: "Client Name", Input: "text", Required: true},
		Secondary: Field{Name: "clientRole", Label: "Client Role", Input: "text", Required: true},
		Extra: []Field{
			{Name: "rating", Label: "Rating (1-5)", Input: "number"},
			{Name: "reviewText", Label: "Review", Input: "textarea"},
		},
		build: func(d Draft) (Item, error) {
			rating, err := ParseRating(d.Get("rating"))
			if err != nil {
				return nil, err
			}
			return Review{
				ClientName: strings.TrimSpace(d.Get("clientName")),
				ClientRole: strings.TrimSpace(d.Get("clientRole")),
				Rating:     rating,
				ReviewText: d.Get("reviewText"),
			}, nil
		},
		fill: func(it Item) map[string]string {
			r, _ := it.(Review)
			rating := ""
			if r.Rating != 0 {
				rating = strconv.Itoa(int(r.Rating))
			}
			return map[string]string{
				"clientName": r.ClientName,
				"clientRole": r.ClientRole,
				"rating":     rating,
				"reviewText": r.ReviewText,
			}
		},
	},
	Messages: {
		Kind:      Messages,
		Primary:   Field{Name: "name", Label: "Name", ReadOnly: true},
		Secondary: Field{Name: "email", Label: "Email", ReadOnly: true},
		Extra: []Field{
			{Name: "subject", Label: "Subject", ReadOnly: true},
			{Name: "message", Label: "Message", ReadOnly: true},
			{Name: "status", Label: "Status", ReadOnly: true},
			{Name: "replyText", Label: "Reply", ReadOnly: true},
		},
		ReadOnly: true,
	},
}
