package bucket

import (
	"errors"
	"os"
	"testing"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/note"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "sowilo-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func entries(ts int64, subject, snippet string, unread bool) []note.IndexEntry {
	return []note.IndexEntry{
		{Name: note.IndexTimestamp, Value: ts},
		{Name: note.IndexSubject, Value: subject},
		{Name: note.IndexSnippet, Value: snippet},
		{Name: note.IndexUnread, Value: unread},
		{Name: note.IndexNoticon, Value: ""},
		{Name: note.IndexIcon, Value: "https://icon"},
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes`).Scan(&count); err != nil {
		t.Fatalf("notes table missing: %v", err)
	}
}

func TestUpsertAndDocument(t *testing.T) {
	db := testDB(t)
	doc := []byte(`{"id":1,"type":"comment"}`)
	if err := db.Upsert("1", entries(100, "subj", "snip", true), doc); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := db.Document("1")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if string(got) != string(doc) {
		t.Errorf("document = %s", got)
	}
}

func TestDocument_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.Document("missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpsert_ReplacesIndex(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert("1", entries(100, "old", "snip", true), []byte(`{}`))
	if err := db.Upsert("1", entries(200, "new", "snip", false), []byte(`{}`)); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	rows, total, err := db.List(10, 0, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("total = %d, rows = %d, want 1/1", total, len(rows))
	}
	if rows[0].Subject != "new" || rows[0].Timestamp != 200 || rows[0].Unread {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestList_TimestampOrderAndUnreadFilter(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert("a", entries(100, "oldest", "", false), []byte(`{}`))
	_ = db.Upsert("b", entries(300, "newest", "", true), []byte(`{}`))
	_ = db.Upsert("c", entries(200, "middle", "", true), []byte(`{}`))

	rows, total, err := db.List(10, 0, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if rows[0].ID != "b" || rows[1].ID != "c" || rows[2].ID != "a" {
		t.Errorf("order = %s %s %s, want b c a", rows[0].ID, rows[1].ID, rows[2].ID)
	}

	unread, total, err := db.List(10, 0, true)
	if err != nil {
		t.Fatalf("List unread: %v", err)
	}
	if total != 2 || len(unread) != 2 {
		t.Fatalf("unread total = %d, rows = %d, want 2/2", total, len(unread))
	}
	for _, r := range unread {
		if !r.Unread {
			t.Errorf("row %s is not unread", r.ID)
		}
	}
}

func TestList_MissingTimestampSortsLast(t *testing.T) {
	db := testDB(t)
	// A malformed timestamp never produces an index entry; the column
	// default of zero puts the note at the end of the timeline.
	noTS := []note.IndexEntry{
		{Name: note.IndexSubject, Value: "no ts"},
		{Name: note.IndexUnread, Value: true},
	}
	_ = db.Upsert("bad", noTS, []byte(`{}`))
	_ = db.Upsert("good", entries(100, "has ts", "", true), []byte(`{}`))

	rows, _, err := db.List(10, 0, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if rows[len(rows)-1].ID != "bad" {
		t.Errorf("note without timestamp should sort last, got order %v", rows)
	}
}

func TestDelete(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert("1", entries(100, "s", "", true), []byte(`{}`))
	if err := db.Delete("1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := db.Document("1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("document should be gone, err = %v", err)
	}
}

func TestDelete_ExecError(t *testing.T) {
	db := testDB(t)
	if _, err := db.conn.Exec(`DROP TABLE notes`); err != nil {
		t.Fatal(err)
	}
	if err := db.Delete("1"); err == nil {
		t.Error("expected error when notes table is missing")
	}
}

func TestUnreadCount(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert("1", entries(1, "", "", true), []byte(`{}`))
	_ = db.Upsert("2", entries(2, "", "", false), []byte(`{}`))

	n, err := db.UnreadCount()
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if n != 1 {
		t.Errorf("unread = %d, want 1", n)
	}
}

func TestSearch(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert("1", entries(1, "Someone commented on your post", "great article", true), []byte(`{}`))
	_ = db.Upsert("2", entries(2, "New follower", "", true), []byte(`{}`))

	hits, err := db.Search("commented", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "1" {
		t.Errorf("hits = %+v, want note 1", hits)
	}
}
