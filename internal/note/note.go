// Package note defines the synchronized notification domain object: an
// opaque server-defined JSON document with typed accessors, lazily cached
// derived fields, and the bucket schema used to index it.
package note

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/starford/sowilo/internal/jsonquery"
)

// Maximum character length for a comment preview.
const maxCommentPreviewLen = 200

// Note types as declared by the server.
const (
	TypeUnknown = "unknown"
	TypeComment = "comment"
	TypeMatcher = "automattcher"
)

// Action keys inside the document's body[last].actions object.
const (
	actionKeyReply   = "replyto-comment"
	actionKeyApprove = "approve-comment"
	actionKeySpam    = "spam-comment"
	actionKeyLike    = "like-comment"
)

// Note wraps one notification document. The document is owned exclusively
// by the Note; derived fields are computed on demand and cached until the
// document is replaced. Mutation is single-writer: the caller serializes
// Update/MarkAsRead against reads.
type Note struct {
	doc  map[string]any
	save SaveFunc

	typ         cached[string]
	ts          cached[tsResult]
	icon        cached[string]
	subject     cached[map[string]any]
	subjectText cached[string]
	preview     cached[string]
	actions     cached[map[string]any]
}

type tsResult struct {
	val int64
	err error
}

// Document returns the raw JSON value tree backing this note.
func (n *Note) Document() map[string]any {
	return n.doc
}

// replaceDocument swaps in a new document and clears every cached derived
// field in one step, before any accessor can repopulate them.
func (n *Note) replaceDocument(doc map[string]any) {
	n.doc = doc

	n.typ.reset()
	n.ts.reset()
	n.icon.reset()
	n.subject.reset()
	n.subjectText.reset()
	n.preview.reset()
	n.actions.reset()
}

// ID returns the note identity: the document's id field, stringified.
// This is also the bucket key.
func (n *Note) ID() string {
	if s := jsonquery.Query(n.doc, "id", ""); s != "" {
		return s
	}
	return strconv.FormatInt(jsonquery.Query[int64](n.doc, "id", 0), 10)
}

// Type returns the note's declared type, or "unknown".
func (n *Note) Type() string {
	return n.typ.get(func() string {
		return jsonquery.Query(n.doc, "type", TypeUnknown)
	})
}

func (n *Note) isType(t string) bool {
	return n.Type() == t
}

// IsCommentType reports whether this note represents a comment: either a
// matcher-type note carrying a comment id, or a note declared as comment.
func (n *Note) IsCommentType() bool {
	return (n.IsAutomattcherType() && jsonquery.Query(n.doc, "meta.ids.comment", -1) != -1) ||
		n.isType(TypeComment)
}

// IsAutomattcherType reports whether this note is the generic matcher type.
func (n *Note) IsAutomattcherType() bool {
	return n.isType(TypeMatcher)
}

// Title returns the document title, or empty string.
func (n *Note) Title() string {
	return jsonquery.Query(n.doc, "title", "")
}

// Subject returns the first element of the subject array, or nil.
func (n *Note) Subject() map[string]any {
	return n.subject.get(func() map[string]any {
		arr := jsonquery.Query[[]any](n.doc, "subject", nil)
		if len(arr) == 0 {
			return nil
		}
		obj, _ := arr[0].(map[string]any)
		return obj
	})
}

// SubjectText returns the plain text of the subject node. Rich-text span
// formatting is an outer-surface concern; only the text is exposed here.
func (n *Note) SubjectText() string {
	return n.subjectText.get(func() string {
		return jsonquery.Query(n.Subject(), "text", "")
	})
}

// CommentPreview returns the snippet text from the second subject element,
// trimmed down when the comment text is too large.
func (n *Note) CommentPreview() string {
	return n.preview.get(func() string {
		s := jsonquery.Query(n.doc, "subject[1].text", "")
		if r := []rune(s); len(r) > maxCommentPreviewLen {
			return string(r[:maxCommentPreviewLen-1])
		}
		return s
	})
}

// Timestamp returns the note's timestamp as Unix seconds, parsed once from
// the document's ISO-8601 string. Malformed timestamps default to zero.
func (n *Note) Timestamp() int64 {
	res, _ := n.timestampValue()
	return res
}

// timestampValue exposes the parse error alongside the cached value so the
// indexer can skip the timestamp entry on failure.
func (n *Note) timestampValue() (int64, error) {
	res := n.ts.get(func() tsResult {
		raw := jsonquery.Query(n.doc, "timestamp", "")
		if raw == "" {
			return tsResult{}
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return tsResult{err: err}
		}
		return tsResult{val: t.Unix()}
	})
	return res.val, res.err
}

// Body returns the document's body array, or nil when absent.
func (n *Note) Body() []any {
	return jsonquery.Query[[]any](n.doc, "body", nil)
}

// Header returns the document's header array, passed through opaquely.
func (n *Note) Header() []any {
	return jsonquery.Query[[]any](n.doc, "header", nil)
}

// IconURL returns the note's icon URL, or empty string.
func (n *Note) IconURL() string {
	return n.icon.get(func() string {
		return jsonquery.Query(n.doc, "icon", "")
	})
}

// Noticon returns the character code for the notification icon font.
func (n *Note) Noticon() string {
	return jsonquery.Query(n.doc, "noticon", "")
}

// IsRead reports whether the note has been read.
func (n *Note) IsRead() bool {
	return jsonquery.Query(n.doc, "read", 0) == 1
}

// IsUnread is the inverse of IsRead.
func (n *Note) IsUnread() bool {
	return !n.IsRead()
}

// MarkAsRead sets the read flag and triggers persistence through the
// attached save capability. A failed write is logged and swallowed: the
// flag stays unchanged and persistence is skipped. Derived-field caches
// are intentionally left alone since none depend on the read state.
func (n *Note) MarkAsRead() {
	if n.doc == nil {
		slog.Error("note: unable to update read property", slog.String("id", n.ID()))
		return
	}
	n.doc["read"] = float64(1) // stored as a JSON number
	if n.save != nil {
		n.save(n)
	}
}

// SiteID returns the site id from the document's meta block.
func (n *Note) SiteID() int {
	return jsonquery.Query(n.doc, "meta.ids.site", 0)
}

// PostID returns the post id from the document's meta block.
func (n *Note) PostID() int {
	return jsonquery.Query(n.doc, "meta.ids.post", 0)
}

// CommentID returns the comment id from the document's meta block.
func (n *Note) CommentID() int64 {
	return jsonquery.Query[int64](n.doc, "meta.ids.comment", 0)
}
