package note

import (
	"time"

	"github.com/starford/sowilo/internal/jsonquery"
)

// Comment is an immutable snapshot of the comment behind a note,
// independent of the note once built.
type Comment struct {
	PostID     int    `json:"post_id"`
	CommentID  int64  `json:"comment_id"`
	AuthorName string `json:"author_name"`
	AuthorURL  string `json:"author_url"`
	Timestamp  string `json:"timestamp"` // ISO-8601
	Text       string `json:"text"`
	Status     string `json:"status"`
	IconURL    string `json:"icon_url"`
}

// BuildComment assembles a Comment snapshot from the note's current
// document: author from the first user-typed body element, text from the
// last body element, status and timestamp from their derived accessors.
func (n *Note) BuildComment() Comment {
	return Comment{
		PostID:     n.PostID(),
		CommentID:  n.CommentID(),
		AuthorName: n.CommentAuthorName(),
		AuthorURL:  n.commentAuthorURL(),
		Timestamp:  time.Unix(n.Timestamp(), 0).UTC().Format(time.RFC3339),
		Text:       n.commentText(),
		Status:     n.CommentStatus().String(),
		IconURL:    n.IconURL(),
	}
}

// CommentAuthorName returns the text of the first body element whose type
// marks it as a user, or empty string.
func (n *Note) CommentAuthorName() string {
	for _, item := range n.Body() {
		body, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if jsonquery.Query(body, "type", "") == "user" {
			return jsonquery.Query(body, "text", "")
		}
	}
	return ""
}

// commentAuthorURL returns the home link of the first user-typed body
// element, or empty string.
func (n *Note) commentAuthorURL() string {
	for _, item := range n.Body() {
		body, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if jsonquery.Query(body, "type", "") == "user" {
			return jsonquery.Query(body, "meta.links.home", "")
		}
	}
	return ""
}

// commentText returns the text of the last body element.
func (n *Note) commentText() string {
	return jsonquery.Query(n.doc, "body[last].text", "")
}
