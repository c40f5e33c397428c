package sync

import (
	"context"
	"os"
	stdsync "sync"
	"testing"

	"github.com/starford/sowilo/internal/bucket"
)

type fakeRemote struct {
	notes    []map[string]any
	fetchErr error
	readCh   chan string

	mu   stdsync.Mutex
	read []string
}

func (f *fakeRemote) FetchNotes(context.Context) ([]map[string]any, error) {
	return f.notes, f.fetchErr
}

func (f *fakeRemote) MarkRead(_ context.Context, ids ...string) error {
	f.mu.Lock()
	f.read = append(f.read, ids...)
	f.mu.Unlock()
	if f.readCh != nil {
		for _, id := range ids {
			f.readCh <- id
		}
	}
	return nil
}

func testBucket(t *testing.T) *bucket.DB {
	t.Helper()
	f, err := os.CreateTemp("", "sowilo-sync-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := bucket.Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func doc(id float64, read float64, subject string) map[string]any {
	return map[string]any{
		"id":        id,
		"type":      "comment",
		"read":      read,
		"timestamp": "2026-08-01T12:00:00Z",
		"subject":   []any{map[string]any{"text": subject}},
	}
}

func TestSyncOnce_BuildsAndPersists(t *testing.T) {
	db := testBucket(t)
	rem := &fakeRemote{notes: []map[string]any{doc(1, 0, "first"), doc(2, 1, "second")}}

	var events []string
	s := New(rem, db, nil, func(kind, id string) { events = append(events, kind+":"+id) })

	if err := s.SyncOnce(context.Background()); err != nil {
		t.Fatalf("SyncOnce: %v", err)
	}

	rows, total, err := db.List(10, 0, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if rows[0].Subject != "first" && rows[1].Subject != "first" {
		t.Errorf("rows = %+v", rows)
	}
	if len(events) != 2 || events[0] != "created:1" {
		t.Errorf("events = %v", events)
	}
}

func TestSyncOnce_UpdatePreservesIdentity(t *testing.T) {
	db := testBucket(t)
	rem := &fakeRemote{notes: []map[string]any{doc(1, 0, "before")}}
	s := New(rem, db, nil, nil)

	if err := s.SyncOnce(context.Background()); err != nil {
		t.Fatalf("first SyncOnce: %v", err)
	}
	n1, err := s.Get("1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if n1.SubjectText() != "before" {
		t.Fatalf("subject = %q", n1.SubjectText())
	}

	rem.notes = []map[string]any{doc(1, 1, "after")}
	if err := s.SyncOnce(context.Background()); err != nil {
		t.Fatalf("second SyncOnce: %v", err)
	}

	n2, err := s.Get("1")
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if n1 != n2 {
		t.Error("update replaced the live note instance")
	}
	if n1.SubjectText() != "after" {
		t.Errorf("observer sees %q, want %q", n1.SubjectText(), "after")
	}
	if n1.IsUnread() {
		t.Error("observer should see the new read flag")
	}
}

func TestSyncOnce_SkipsBadDocument(t *testing.T) {
	db := testBucket(t)
	// A document whose content cannot be JSON-encoded fails persist but
	// must not abort the pass.
	bad := map[string]any{"id": 9.0, "body": []any{func() {}}}
	rem := &fakeRemote{notes: []map[string]any{bad, doc(1, 0, "good")}}
	s := New(rem, db, nil, nil)

	if err := s.SyncOnce(context.Background()); err != nil {
		t.Fatalf("SyncOnce: %v", err)
	}
	if _, err := db.Document("1"); err != nil {
		t.Errorf("good note should be persisted: %v", err)
	}
}

func TestGet_LoadsFromBucket(t *testing.T) {
	db := testBucket(t)
	rem := &fakeRemote{notes: []map[string]any{doc(5, 0, "stored")}}
	s := New(rem, db, nil, nil)
	if err := s.SyncOnce(context.Background()); err != nil {
		t.Fatalf("SyncOnce: %v", err)
	}

	// A fresh syncer has no live instances; Get must rebuild from the
	// stored document.
	s2 := New(rem, db, nil, nil)
	n, err := s2.Get("5")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if n.SubjectText() != "stored" {
		t.Errorf("subject = %q", n.SubjectText())
	}
}

func TestMarkRead_PersistsAndNotifiesRemote(t *testing.T) {
	db := testBucket(t)
	rem := &fakeRemote{notes: []map[string]any{doc(7, 0, "s")}, readCh: make(chan string, 1)}
	s := New(rem, db, nil, nil)
	if err := s.SyncOnce(context.Background()); err != nil {
		t.Fatalf("SyncOnce: %v", err)
	}

	if err := s.MarkRead(context.Background(), "7"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	rows, _, err := db.List(10, 0, true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("note should no longer be unread in the bucket, rows = %+v", rows)
	}

	if got := <-rem.readCh; got != "7" {
		t.Errorf("read receipt for %q, want 7", got)
	}
}

func TestMarkRead_UnknownID(t *testing.T) {
	db := testBucket(t)
	s := New(&fakeRemote{}, db, nil, nil)
	if err := s.MarkRead(context.Background(), "nope"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestDelete_RemovesNoteAndEvicts(t *testing.T) {
	db := testBucket(t)

	var events []string
	s := New(&fakeRemote{}, db, nil, func(kind, id string) { events = append(events, kind+":"+id) })

	if _, _, err := s.ApplyDocument(doc(9, 0, "gone soon")); err != nil {
		t.Fatalf("ApplyDocument: %v", err)
	}

	if err := s.Delete("9"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if events[len(events)-1] != "deleted:9" {
		t.Errorf("events = %v, want deleted:9 last", events)
	}
	if _, err := s.Get("9"); err == nil {
		t.Error("deleted note should not resolve")
	}

	// Re-applying the same document is a create again, not an update.
	kind, _, err := s.ApplyDocument(doc(9, 0, "back"))
	if err != nil {
		t.Fatalf("re-apply: %v", err)
	}
	if kind != "created" {
		t.Errorf("kind = %q, want created", kind)
	}
}

func TestDelete_UnknownID(t *testing.T) {
	db := testBucket(t)
	s := New(&fakeRemote{}, db, nil, nil)
	if err := s.Delete("nope"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestMarkRead_ConcurrentWithApply(t *testing.T) {
	db := testBucket(t)
	s := New(&fakeRemote{}, db, nil, nil)

	if _, _, err := s.ApplyDocument(doc(5, 0, "contended")); err != nil {
		t.Fatalf("ApplyDocument: %v", err)
	}

	// A poll pass replacing the document must not race a mark-read
	// mutating it; both paths go through the syncer's lock.
	var wg stdsync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if _, _, err := s.ApplyDocument(doc(5, float64(i%2), "contended")); err != nil {
				t.Errorf("ApplyDocument: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if err := s.MarkRead(context.Background(), "5"); err != nil {
				t.Errorf("MarkRead: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	if _, err := s.Get("5"); err != nil {
		t.Fatalf("Get after contention: %v", err)
	}
}
