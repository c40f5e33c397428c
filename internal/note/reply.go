package note

import "fmt"

// Reply describes a proposed reply to a note: the REST path to post it to
// and the reply content. It holds no reference back to the note.
type Reply struct {
	RestPath string
	Content  string
}

// BuildReply constructs a Reply targeting the comment behind this note
// when it is a comment-type note, or the post otherwise.
func (n *Note) BuildReply(content string) Reply {
	var restPath string
	if n.IsCommentType() {
		restPath = fmt.Sprintf("sites/%d/comments/%d", n.SiteID(), n.CommentID())
	} else {
		restPath = fmt.Sprintf("sites/%d/posts/%d", n.SiteID(), n.PostID())
	}
	return Reply{RestPath: restPath + "/replies/new", Content: content}
}
