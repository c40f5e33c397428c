package bucket

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/note"
)

// Row is the index projection of one stored note.
type Row struct {
	ID        string
	Timestamp int64
	Subject   string
	Snippet   string
	Unread    bool
	Noticon   string
	Icon      string
}

// SearchResult represents one search hit.
type SearchResult struct {
	ID      string
	Subject string
	Snippet string
}

// Upsert stores a note's document together with its index entries. Entries
// absent from the list (an unparseable timestamp) keep their column
// defaults, so the note sorts last in timestamp order.
func (db *DB) Upsert(id string, entries []note.IndexEntry, document []byte) error {
	row := Row{ID: id}
	for _, e := range entries {
		switch e.Name {
		case note.IndexTimestamp:
			row.Timestamp, _ = e.Value.(int64)
		case note.IndexSubject:
			row.Subject, _ = e.Value.(string)
		case note.IndexSnippet:
			row.Snippet, _ = e.Value.(string)
		case note.IndexUnread:
			row.Unread, _ = e.Value.(bool)
		case note.IndexNoticon:
			row.Noticon, _ = e.Value.(string)
		case note.IndexIcon:
			row.Icon, _ = e.Value.(string)
		}
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("bucket: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO notes (id, timestamp, subject, snippet, unread, noticon, icon, document)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			timestamp = excluded.timestamp,
			subject   = excluded.subject,
			snippet   = excluded.snippet,
			unread    = excluded.unread,
			noticon   = excluded.noticon,
			icon      = excluded.icon,
			document  = excluded.document
	`, row.ID, row.Timestamp, row.Subject, row.Snippet, row.Unread, row.Noticon, row.Icon, string(document))
	if err != nil {
		return fmt.Errorf("bucket: upsert note: %w", err)
	}

	if err := ftsUpsert(tx, row.ID, row.Subject, row.Snippet); err != nil {
		return err
	}

	return tx.Commit()
}

// Document returns the stored JSON document for a note.
func (db *DB) Document(id string) ([]byte, error) {
	var doc string
	err := db.conn.QueryRow(`SELECT document FROM notes WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("bucket: get document: %w", err)
	}
	return []byte(doc), nil
}

// List returns rows ordered by timestamp descending, with the total count
// for the applied filter.
func (db *DB) List(limit, offset int, unreadOnly bool) ([]Row, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := ""
	if unreadOnly {
		where = "WHERE unread = 1"
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes ` + where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("bucket: count notes: %w", err)
	}

	rows, err := db.conn.Query(fmt.Sprintf(`
		SELECT id, timestamp, subject, snippet, unread, noticon, icon
		FROM notes %s
		ORDER BY timestamp DESC, id
		LIMIT ? OFFSET ?
	`, where), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("bucket: list notes: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Subject, &r.Snippet, &r.Unread, &r.Noticon, &r.Icon); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// Delete removes a note and its FTS entry.
func (db *DB) Delete(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("bucket: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, id)
	if _, err := tx.Exec(`DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("bucket: delete note: %w", err)
	}

	return tx.Commit()
}

// UnreadCount returns the number of unread notes.
func (db *DB) UnreadCount() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes WHERE unread = 1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("bucket: unread count: %w", err)
	}
	return n, nil
}
