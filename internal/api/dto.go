package api

// NoteListItem is one entry in a notification list response, carrying the
// bucket's index projection.
type NoteListItem struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp,omitempty"`
	Subject   string `json:"subject"`
	Snippet   string `json:"snippet,omitempty"`
	Unread    bool   `json:"unread"`
	Noticon   string `json:"noticon,omitempty"`
	Icon      string `json:"icon,omitempty"`
	TimeGroup string `json:"time_group"`
}

// NoteListResponse wraps paginated notification listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes"`
	Total int            `json:"total"`
}

// NoteDetail is the full derived view of one notification.
type NoteDetail struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Title         string   `json:"title,omitempty"`
	Subject       string   `json:"subject"`
	Snippet       string   `json:"snippet,omitempty"`
	Timestamp     string   `json:"timestamp,omitempty"`
	Unread        bool     `json:"unread"`
	Noticon       string   `json:"noticon,omitempty"`
	Icon          string   `json:"icon,omitempty"`
	IsComment     bool     `json:"is_comment"`
	TimeGroup     string   `json:"time_group"`
	Actions       []string `json:"actions"`
	CommentStatus string   `json:"comment_status"`
	Liked         bool     `json:"liked"`
}

// ReplyRequest is the request body for posting a reply.
type ReplyRequest struct {
	Content string `json:"content"`
}

// ReplyResponse echoes where the reply was sent.
type ReplyResponse struct {
	RestPath string `json:"rest_path"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Snippet string `json:"snippet,omitempty"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}
