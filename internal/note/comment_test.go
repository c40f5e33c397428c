package note

import "testing"

const commentNoteFixture = `{
	"id":99,
	"type":"comment",
	"timestamp":"2026-08-01T12:00:00Z",
	"icon":"https://gravatar/99.png",
	"meta":{"ids":{"site":10,"post":20,"comment":30}},
	"body":[
		{"type":"user","text":"Ada Lovelace","meta":{"links":{"home":"https://ada.example"}}},
		{"type":"comment","text":"great write-up","actions":{"approve-comment":true}}
	]
}`

func TestBuildComment(t *testing.T) {
	c := buildNote(t, commentNoteFixture).BuildComment()

	if c.PostID != 20 || c.CommentID != 30 {
		t.Errorf("ids = %d/%d, want 20/30", c.PostID, c.CommentID)
	}
	if c.AuthorName != "Ada Lovelace" {
		t.Errorf("author = %q", c.AuthorName)
	}
	if c.AuthorURL != "https://ada.example" {
		t.Errorf("author url = %q", c.AuthorURL)
	}
	if c.Text != "great write-up" {
		t.Errorf("text = %q", c.Text)
	}
	if c.Status != "approved" {
		t.Errorf("status = %q, want approved", c.Status)
	}
	if c.Timestamp != "2026-08-01T12:00:00Z" {
		t.Errorf("timestamp = %q", c.Timestamp)
	}
	if c.IconURL != "https://gravatar/99.png" {
		t.Errorf("icon = %q", c.IconURL)
	}
}

func TestBuildComment_NoUserItem(t *testing.T) {
	c := buildNote(t, `{"body":[{"type":"comment","text":"hi"}]}`).BuildComment()
	if c.AuthorName != "" || c.AuthorURL != "" {
		t.Errorf("author = %q/%q, want empty", c.AuthorName, c.AuthorURL)
	}
	if c.Text != "hi" {
		t.Errorf("text = %q", c.Text)
	}
}

func TestBuildComment_EmptyBody(t *testing.T) {
	c := buildNote(t, `{}`).BuildComment()
	if c.Text != "" || c.AuthorName != "" {
		t.Errorf("empty body should degrade to empty fields, got %+v", c)
	}
	if c.Status != "unknown" {
		t.Errorf("status = %q, want unknown", c.Status)
	}
}

func TestBuildReply_CommentNote(t *testing.T) {
	r := buildNote(t, commentNoteFixture).BuildReply("thanks!")
	if r.RestPath != "sites/10/comments/30/replies/new" {
		t.Errorf("rest path = %q", r.RestPath)
	}
	if r.Content != "thanks!" {
		t.Errorf("content = %q", r.Content)
	}
}

func TestBuildReply_PostNote(t *testing.T) {
	n := buildNote(t, `{"type":"like","meta":{"ids":{"site":10,"post":20}}}`)
	r := n.BuildReply("hello")
	if r.RestPath != "sites/10/posts/20/replies/new" {
		t.Errorf("rest path = %q", r.RestPath)
	}
}
