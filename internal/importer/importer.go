// Package importer feeds local JSON seed documents through the same
// build/update path as remote sync. Dropping a *.json notification
// document into the seed directory imports it into the bucket, which is
// useful for offline fixtures and development.
package importer

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/sowilo/internal/sync"
)

// Watch imports every existing seed file, then processes directory events
// until ctx is cancelled. It calls cb (if non-nil) after each applied
// document, with the same kinds the syncer emits.
func Watch(ctx context.Context, s *sync.Syncer, dir string, logger *slog.Logger, cb sync.EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("importer: started", slog.String("dir", dir))

	ImportDir(s, dir, logger, cb)

	for {
		select {
		case <-ctx.Done():
			logger.Info("importer: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			importFile(s, ev.Name, logger, cb)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("importer: error", slog.String("error", watchErr.Error()))
		}
	}
}

// ImportDir applies every *.json file already present in dir.
func ImportDir(s *sync.Syncer, dir string, logger *slog.Logger, cb sync.EventCallback) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("importer: read dir failed", slog.String("dir", dir), slog.String("error", err.Error()))
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		importFile(s, filepath.Join(dir, e.Name()), logger, cb)
	}
}

func importFile(s *sync.Syncer, path string, logger *slog.Logger, cb sync.EventCallback) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("importer: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn("importer: invalid document", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	kind, id, err := s.ApplyDocument(doc)
	if err != nil {
		logger.Warn("importer: apply failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	logger.Debug("importer: applied", slog.String("id", id), slog.String("op", kind))
	if cb != nil {
		cb(kind, id)
	}
}
