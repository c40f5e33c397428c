package note

import "log/slog"

// BucketName is the remote name of the notification bucket.
const BucketName = "note20"

// Canonical index entry names.
const (
	IndexTimestamp = "timestamp"
	IndexSubject   = "subject"
	IndexSnippet   = "snippet"
	IndexUnread    = "unread"
	IndexNoticon   = "noticon"
	IndexIcon      = "icon"
)

// IndexEntry is one named, typed projection of a derived field, used for
// bucket-level querying and ordering.
type IndexEntry struct {
	Name  string
	Value any
}

// SaveFunc persists a note after a local mutation. It is fire-and-forget
// from the note's perspective.
type SaveFunc func(*Note)

// Schema is the contract the sync bucket uses to construct and update
// notes from remote JSON and to compute their index projection.
type Schema struct {
	logger *slog.Logger
	save   SaveFunc
}

// NewSchema creates a Schema. save may be nil, in which case MarkAsRead
// mutates the document without persisting. A nil logger falls back to the
// default logger.
func NewSchema(logger *slog.Logger, save SaveFunc) *Schema {
	if logger == nil {
		logger = slog.Default()
	}
	return &Schema{logger: logger, save: save}
}

// Build constructs a new Note wrapping doc. The key is accepted for bucket
// bookkeeping; identity comes from the id field inside the document.
func (s *Schema) Build(_ string, doc map[string]any) *Note {
	return &Note{doc: doc, save: s.save}
}

// Update replaces a live note's document in place, invalidating every
// cached derived field before any accessor can repopulate them. Used
// instead of reconstruction so observers keep the same note reference.
func (s *Schema) Update(n *Note, doc map[string]any) {
	n.replaceDocument(doc)
}

// Index recomputes all canonical index entries from the note's accessors.
// A timestamp that fails to parse is omitted (logged) so the note sorts
// last in timestamp order; the remaining entries always proceed.
func (s *Schema) Index(n *Note) []IndexEntry {
	entries := make([]IndexEntry, 0, 6)

	if ts, err := n.timestampValue(); err != nil {
		s.logger.Warn("schema: failed to index timestamp",
			slog.String("id", n.ID()),
			slog.String("error", err.Error()))
	} else {
		entries = append(entries, IndexEntry{Name: IndexTimestamp, Value: ts})
	}

	entries = append(entries,
		IndexEntry{Name: IndexSubject, Value: n.SubjectText()},
		IndexEntry{Name: IndexSnippet, Value: n.CommentPreview()},
		IndexEntry{Name: IndexUnread, Value: n.IsUnread()},
		IndexEntry{Name: IndexNoticon, Value: n.Noticon()},
		IndexEntry{Name: IndexIcon, Value: n.IconURL()},
	)

	return entries
}
