package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const (
	processedDirName = "processed"
	failedDirName    = "failed"

	// maxUploadSize matches the HTTP body limit default.
	maxUploadSize = 15 << 20
)

// InboxWatcher ingests files dropped into a directory and moves them to
// processed/ (or failed/ when they cannot be read).
type InboxWatcher struct {
	dir      string
	workers  int
	debounce time.Duration
	ingest   *IngestService
	logger   *zap.Logger
}

func NewInboxWatcher(dir string, workers int, ingest *IngestService, logger *zap.Logger) *InboxWatcher {
	if workers < 1 {
		workers = 1
	}
	return &InboxWatcher{
		dir:      dir,
		workers:  workers,
		debounce: 500 * time.Millisecond,
		ingest:   ingest,
		logger:   logger.With(zap.String("inbox", dir)),
	}
}

// Run processes files already in the inbox, then watches for new ones until
// ctx is cancelled. In-flight files finish before Run returns.
func (w *InboxWatcher) Run(ctx context.Context) error {
	for _, sub := range []string{processedDirName, failedDirName} {
		if err := os.MkdirAll(filepath.Join(w.dir, sub), 0755); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", sub, err)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	jobs := make(chan string, 64)
	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				// Files left after shutdown are picked up by the next initial scan.
				if ctx.Err() != nil {
					continue
				}
				w.process(ctx, path)
			}
		}()
	}
	defer func() {
		close(jobs)
		wg.Wait()
	}()

	enqueue := func(path string) bool {
		select {
		case jobs <- path:
			return true
		case <-ctx.Done():
			return false
		}
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to scan inbox: %w", err)
	}
	for _, e := range entries {
		if e.Type().IsRegular() && candidate(e.Name()) {
			if !enqueue(filepath.Join(w.dir, e.Name())) {
				return nil
			}
		}
	}

	w.logger.Info("Inbox watcher started", zap.Int("workers", w.workers))

	// Editors and copy tools emit bursts of events per file; collect them and
	// flush once the directory has been quiet for the debounce interval.
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Inbox watcher stopped")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 || !candidate(filepath.Base(ev.Name)) {
				continue
			}
			pending[ev.Name] = struct{}{}
			timer.Reset(w.debounce)

		case <-timer.C:
			for path := range pending {
				delete(pending, path)
				if !enqueue(path) {
					return nil
				}
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Inbox watcher error", zap.Error(err))
		}
	}
}

func (w *InboxWatcher) process(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		// Renamed away or a directory; nothing to do.
		return
	}

	up, err := ReadUpload(path)
	if err != nil {
		w.logger.Warn("Failed to read inbox file", zap.String("file", path), zap.Error(err))
		w.move(path, failedDirName)
		return
	}

	res := w.ingest.IngestBytes(ctx, up, Identity{})
	w.logger.Info("Inbox file ingested",
		zap.String("file", up.FileName),
		zap.String("route", res.Route),
		zap.String("request_id", res.RequestID),
	)
	w.move(path, processedDirName)
}

func (w *InboxWatcher) move(path, sub string) {
	target := filepath.Join(w.dir, sub, filepath.Base(path))
	if _, err := os.Stat(target); err == nil {
		ext := filepath.Ext(target)
		target = fmt.Sprintf("%s-%s%s", strings.TrimSuffix(target, ext), time.Now().UTC().Format("20060102T150405.000000000"), ext)
	}
	if err := os.Rename(path, target); err != nil {
		w.logger.Warn("Failed to move inbox file", zap.String("file", path), zap.String("target", target), zap.Error(err))
	}
}

// candidate skips hidden files and partial downloads.
func candidate(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tmp", ".part", ".crdownload", ".swp":
		return false
	}
	return true
}

// ReadUpload loads a file for ingestion and sniffs its mime type from the content.
func ReadUpload(path string) (Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return Upload{}, err
	}
	if len(data) > maxUploadSize {
		return Upload{}, errors.New("file exceeds upload size limit")
	}
	if len(data) == 0 {
		return Upload{}, errors.New("file is empty")
	}

	return Upload{
		FileName: filepath.Base(path),
		Mime:     mimetype.Detect(data).String(),
		Data:     data,
	}, nil
}
