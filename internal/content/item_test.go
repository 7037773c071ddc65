package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingDecodesNumberOrString(t *testing.T) {
	tests := []struct {
		in   string
		want Rating
	}{
		{`{"rating": 4}`, 4},
		{`{"rating": "5"}`, 5},
		{`{"rating": ""}`, 0},
		{`{"rating": null}`, 0},
		{`{}`, 0},
	}
	for _, tt := range tests {
		var r Review
		require.NoError(t, json.Unmarshal([]byte(tt.in), &r), tt.in)
		assert.Equal(t, tt.want, r.Rating, tt.in)
	}

	var r Review
	assert.Error(t, json.Unmarshal([]byte(`{"rating": "great"}`), &r))
}

func TestReviewDisplayDefaults(t *testing.T) {
	r := Review{}
	assert.Equal(t, 5, r.Stars())
	assert.Equal(t, "Satisfied Client", r.Role())

	r = Review{Rating: 3, ClientRole: "Founder"}
	assert.Equal(t, 3, r.Stars())
	assert.Equal(t, "Founder", r.Role())
}

func TestReviewStarsAreCapped(t *testing.T) {
	assert.Equal(t, MaxStars, Review{Rating: 20_000_000}.Stars())
	assert.Equal(t, MaxStars, Review{Rating: 6}.Stars())
	assert.Equal(t, MaxStars, Review{Rating: -3}.Stars())
}

func TestNewReplyPrefixesSubject(t *testing.T) {
	m := Message{ID: "m1", Email: "ada@example.com", Subject: "Hello"}

	r := NewReply(m, "Thanks!")

	assert.Equal(t, Reply{ID: "m1", To: "ada@example.com", Subject: "Re: Hello", Message: "Thanks!"}, r)
}

func TestMessageReplied(t *testing.T) {
	assert.False(t, Message{Status: StatusPending}.Replied())
	assert.False(t, Message{Status: StatusReplied}.Replied())
	assert.True(t, Message{Status: StatusReplied, ReplyText: "done"}.Replied())
}

func TestMessageDecodesWireNames(t *testing.T) {
	raw := `{"_id":"a1","name":"zoe","email":"z@x.io","subject":"Hi","message":"Body","status":"Pending","createdAt":"2026-01-02T03:04:05Z"}`

	var m Message
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	assert.Equal(t, "a1", m.ID)
	assert.Equal(t, "Body", m.Body)
	assert.Equal(t, StatusPending, m.Status)
	assert.Equal(t, "Z", m.Initial())
	assert.Equal(t, 2026, m.CreatedAt.Year())
}

func TestFilterIsCaseInsensitiveOnPrimary(t *testing.T) {
	items := []Item{
		Project{ID: "1", Title: "Go Mailer", TechStack: []string{"react"}},
		Project{ID: "2", Title: "React Dashboard"},
		ExperienceEntry{ID: "3", Role: "Backend Engineer", Company: "React Inc"},
	}

	got := Filter(items, "REACT")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ItemID())

	assert.Len(t, Filter(items, "  "), 3)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("reviews")
	require.NoError(t, err)
	assert.Equal(t, Reviews, k)
	assert.Equal(t, "/reviews/9", k.ItemPath("9"))

	_, err = ParseKind("users")
	assert.Error(t, err)
}

func TestLinks(t *testing.T) {
	assert.Equal(t, "#", ExternalLink(""))
	assert.Equal(t, "https://github.com/x", ExternalLink("github.com/x"))
	assert.Equal(t, "http://x.dev", ExternalLink("http://x.dev"))

	base := AssetBase("https://api.example.com/api/v1")
	assert.Equal(t, "https://api.example.com", base)
	assert.Equal(t, "https://api.example.com/uploads/a.png", ImageURL(base, "/uploads/a.png"))
	assert.Equal(t, "https://api.example.com/uploads/a.png", ImageURL(base, "uploads/a.png"))
	assert.Equal(t, PlaceholderImage, ImageURL(base, ""))
	assert.Equal(t, "https://cdn.x/a.png", ImageURL(base, "https://cdn.x/a.png"))
}
