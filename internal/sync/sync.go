// Package sync reconciles remote notification documents into the local
// bucket and maintains the registry of live note instances.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	stdsync "sync"
	"time"

	"github.com/starford/sowilo/internal/bucket"
	"github.com/starford/sowilo/internal/note"
)

// Remote is the transport that delivers notification documents.
type Remote interface {
	FetchNotes(ctx context.Context) ([]map[string]any, error)
	MarkRead(ctx context.Context, ids ...string) error
}

// EventCallback is called after a sync-driven bucket change.
// kind is one of "created", "updated", "read", "deleted".
type EventCallback func(kind, id string)

// NoRemote is a Remote for configurations without a remote endpoint:
// fetches deliver nothing and read receipts are dropped.
type NoRemote struct{}

func (NoRemote) FetchNotes(context.Context) ([]map[string]any, error) { return nil, nil }
func (NoRemote) MarkRead(context.Context, ...string) error            { return nil }

// Syncer applies remote documents to the bucket through the note schema.
// Known ids are updated in place so observers keep their note references;
// unknown ids are built fresh.
type Syncer struct {
	remote Remote
	db     *bucket.DB
	schema *note.Schema
	logger *slog.Logger
	cb     EventCallback

	mu   stdsync.RWMutex
	live map[string]*note.Note
}

// New creates a Syncer. The schema's save capability persists the mutated
// document back into the bucket, so MarkAsRead survives a restart.
func New(remote Remote, db *bucket.DB, logger *slog.Logger, cb EventCallback) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Syncer{
		remote: remote,
		db:     db,
		logger: logger,
		cb:     cb,
		live:   make(map[string]*note.Note),
	}
	s.schema = note.NewSchema(logger, func(n *note.Note) {
		if err := s.persist(n); err != nil {
			logger.Warn("sync: persist after save failed",
				slog.String("id", n.ID()),
				slog.String("error", err.Error()))
		}
	})
	return s
}

// Schema returns the bucket schema, shared with the seed importer.
func (s *Syncer) Schema() *note.Schema {
	return s.schema
}

// SyncOnce fetches the remote window and applies every document. Per-note
// failures are logged and skipped; the pass continues.
func (s *Syncer) SyncOnce(ctx context.Context) error {
	docs, err := s.remote.FetchNotes(ctx)
	if err != nil {
		return fmt.Errorf("sync: fetch notes: %w", err)
	}

	for _, doc := range docs {
		kind, id, err := s.ApplyDocument(doc)
		if err != nil {
			s.logger.Warn("sync: apply failed", slog.String("id", id), slog.String("error", err.Error()))
			continue
		}
		s.logger.Debug("sync: applied", slog.String("id", id), slog.String("op", kind))
		if s.cb != nil {
			s.cb(kind, id)
		}
	}

	return nil
}

// Run polls the remote on the given interval until ctx is cancelled.
func (s *Syncer) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sync: stopped")
			return nil
		case <-ticker.C:
			if err := s.SyncOnce(ctx); err != nil {
				s.logger.Warn("sync: pass failed", slog.String("error", err.Error()))
			}
		}
	}
}

// ApplyDocument routes one document through the schema: update-in-place
// for a live note, build otherwise. Returns the change kind and note id.
func (s *Syncer) ApplyDocument(doc map[string]any) (kind, id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	probe := s.schema.Build("", doc)
	id = probe.ID()

	n, ok := s.live[id]
	if ok {
		s.schema.Update(n, doc)
		kind = "updated"
	} else {
		n = probe
		s.live[id] = n
		kind = "created"
		// An id already in the bucket but not yet live is still an update
		// from the storage layer's point of view.
		if _, docErr := s.db.Document(id); docErr == nil {
			kind = "updated"
		}
	}

	if err := s.persist(n); err != nil {
		return kind, id, err
	}
	return kind, id, nil
}

// Get returns the live note for id, loading it from the bucket when no
// live instance exists yet.
func (s *Syncer) Get(id string) (*note.Note, error) {
	s.mu.RLock()
	n, ok := s.live[id]
	s.mu.RUnlock()
	if ok {
		return n, nil
	}

	raw, err := s.db.Document(id)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("sync: decode stored document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.live[id]; ok {
		return n, nil
	}
	n = s.schema.Build(id, doc)
	s.live[id] = n
	return n, nil
}

// MarkRead marks the note read locally and sends the read receipt to the
// remote without waiting for it. The mutation (and the persist it
// triggers) runs under s.mu so it is serialized with ApplyDocument's
// document replacement.
func (s *Syncer) MarkRead(ctx context.Context, id string) error {
	n, err := s.Get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	n.MarkAsRead()
	s.mu.Unlock()
	if s.cb != nil {
		s.cb("read", id)
	}

	go func() {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
		defer cancel()
		if err := s.remote.MarkRead(rctx, id); err != nil {
			s.logger.Warn("sync: read receipt failed",
				slog.String("id", id),
				slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Delete removes the note from the bucket and the live registry.
func (s *Syncer) Delete(id string) error {
	if _, err := s.db.Document(id); err != nil {
		return err
	}
	if err := s.db.Delete(id); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()

	if s.cb != nil {
		s.cb("deleted", id)
	}
	return nil
}

// persist writes the note's document and index projection to the bucket.
func (s *Syncer) persist(n *note.Note) error {
	raw, err := json.Marshal(n.Document())
	if err != nil {
		return fmt.Errorf("sync: encode document: %w", err)
	}
	return s.db.Upsert(n.ID(), s.schema.Index(n), raw)
}
