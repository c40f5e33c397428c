package api

import (
	"context"
	"time"

	"github.com/starford/sowilo/internal/bucket"
	"github.com/starford/sowilo/internal/note"
	"github.com/starford/sowilo/internal/sync"
)

// ReplySender posts a reply built by the note model to its REST target.
type ReplySender interface {
	PostReply(ctx context.Context, r note.Reply) error
}

// Service coordinates bucket queries and live note operations for the API
// layer.
type Service struct {
	db      *bucket.DB
	syncer  *sync.Syncer
	replies ReplySender
}

// NewService creates a new API service. replies may be nil when no remote
// is configured; PostReply then fails with apperr.ErrRemote.
func NewService(db *bucket.DB, syncer *sync.Syncer, replies ReplySender) *Service {
	return &Service{db: db, syncer: syncer, replies: replies}
}

// List returns the index projection of stored notes, newest first.
func (s *Service) List(_ context.Context, limit, offset int, unreadOnly bool) ([]NoteListItem, int, error) {
	rows, total, err := s.db.List(limit, offset, unreadOnly)
	if err != nil {
		return nil, 0, err
	}
	items := make([]NoteListItem, len(rows))
	for i, r := range rows {
		items[i] = NoteListItem{
			ID:        r.ID,
			Timestamp: isoTimestamp(r.Timestamp),
			Subject:   r.Subject,
			Snippet:   r.Snippet,
			Unread:    r.Unread,
			Noticon:   r.Noticon,
			Icon:      r.Icon,
			TimeGroup: note.TimeGroupForTimestamp(r.Timestamp).String(),
		}
	}
	return items, total, nil
}

// Get returns the full derived view of one note.
func (s *Service) Get(_ context.Context, id string) (*NoteDetail, error) {
	n, err := s.syncer.Get(id)
	if err != nil {
		return nil, err
	}
	return &NoteDetail{
		ID:            n.ID(),
		Type:          n.Type(),
		Title:         n.Title(),
		Subject:       n.SubjectText(),
		Snippet:       n.CommentPreview(),
		Timestamp:     isoTimestamp(n.Timestamp()),
		Unread:        n.IsUnread(),
		Noticon:       n.Noticon(),
		Icon:          n.IconURL(),
		IsComment:     n.IsCommentType(),
		TimeGroup:     note.TimeGroupForTimestamp(n.Timestamp()).String(),
		Actions:       n.EnabledActions().Names(),
		CommentStatus: n.CommentStatus().String(),
		Liked:         n.HasLikedComment(),
	}, nil
}

// MarkRead marks a note as read and schedules its read receipt.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.syncer.MarkRead(ctx, id)
}

// Delete removes a note from local storage. The remote keeps its copy;
// deletion only dismisses the note from this service.
func (s *Service) Delete(_ context.Context, id string) error {
	return s.syncer.Delete(id)
}

// Comment builds the comment projection of a note.
func (s *Service) Comment(_ context.Context, id string) (note.Comment, error) {
	n, err := s.syncer.Get(id)
	if err != nil {
		return note.Comment{}, err
	}
	return n.BuildComment(), nil
}

// Reply builds a reply for a note and posts it to the remote.
func (s *Service) Reply(ctx context.Context, id, content string) (note.Reply, error) {
	n, err := s.syncer.Get(id)
	if err != nil {
		return note.Reply{}, err
	}
	r := n.BuildReply(content)
	if s.replies == nil {
		return r, errNoRemote
	}
	if err := s.replies.PostReply(ctx, r); err != nil {
		return note.Reply{}, err
	}
	return r, nil
}

// Search delegates full-text search to the bucket.
func (s *Service) Search(_ context.Context, query string, limit int) ([]bucket.SearchResult, error) {
	return s.db.Search(query, limit)
}

func isoTimestamp(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}
