package note

import "github.com/starford/sowilo/internal/jsonquery"

// EnabledAction is one moderation action allowed on a comment note.
type EnabledAction int

// The closed set of comment actions.
const (
	ActionReply EnabledAction = iota
	ActionApprove
	ActionUnapprove
	ActionSpam
	ActionLike
)

// String returns the wire name of the action.
func (a EnabledAction) String() string {
	switch a {
	case ActionReply:
		return "reply"
	case ActionApprove:
		return "approve"
	case ActionUnapprove:
		return "unapprove"
	case ActionSpam:
		return "spam"
	case ActionLike:
		return "like"
	}
	return "unknown"
}

// ActionSet is a set of enabled actions.
type ActionSet map[EnabledAction]struct{}

func (s ActionSet) add(a EnabledAction) {
	s[a] = struct{}{}
}

// Has reports whether the set contains a.
func (s ActionSet) Has(a EnabledAction) bool {
	_, ok := s[a]
	return ok
}

// Names returns the string names of the actions in declaration order.
func (s ActionSet) Names() []string {
	out := make([]string, 0, len(s))
	for _, a := range []EnabledAction{ActionReply, ActionApprove, ActionUnapprove, ActionSpam, ActionLike} {
		if s.Has(a) {
			out = append(out, a.String())
		}
	}
	return out
}

// CommentStatus is the moderation status of the comment behind a note.
type CommentStatus int

// Comment moderation statuses.
const (
	StatusUnknown CommentStatus = iota
	StatusApproved
	StatusUnapproved
)

// String returns the wire name of the status.
func (s CommentStatus) String() string {
	switch s {
	case StatusApproved:
		return "approved"
	case StatusUnapproved:
		return "unapproved"
	}
	return "unknown"
}

// commentActions returns the actions object of the last body element,
// cached until the document changes. Absent actions yield an empty map.
func (n *Note) commentActions() map[string]any {
	return n.actions.get(func() map[string]any {
		return jsonquery.Query(n.doc, "body[last].actions", map[string]any{})
	})
}

// EnabledActions returns the actions allowed on this note, assuming it is
// a comment notification. The approve key's boolean value decides between
// approve and unapprove: true means the comment is currently approved, so
// unapprove is the action on offer.
func (n *Note) EnabledActions() ActionSet {
	actions := ActionSet{}
	raw := n.commentActions()
	if len(raw) == 0 {
		return actions
	}

	if _, ok := raw[actionKeyReply]; ok {
		actions.add(ActionReply)
	}
	if v, ok := raw[actionKeyApprove]; ok {
		if approved, _ := v.(bool); approved {
			actions.add(ActionUnapprove)
		} else {
			actions.add(ActionApprove)
		}
	}
	if _, ok := raw[actionKeySpam]; ok {
		actions.add(ActionSpam)
	}
	if _, ok := raw[actionKeyLike]; ok {
		actions.add(ActionLike)
	}

	return actions
}

// CommentStatus derives the current moderation status from the enabled
// actions: the action available implies the opposite current status.
func (n *Note) CommentStatus() CommentStatus {
	enabled := n.EnabledActions()
	switch {
	case enabled.Has(ActionUnapprove):
		return StatusApproved
	case enabled.Has(ActionApprove):
		return StatusUnapproved
	}
	return StatusUnknown
}

// HasLikedComment reports whether the current user has liked the comment.
func (n *Note) HasLikedComment() bool {
	raw := n.commentActions()
	if len(raw) == 0 {
		return false
	}
	liked, _ := raw[actionKeyLike].(bool)
	return liked
}
