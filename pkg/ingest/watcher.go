package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits after the last change
// before re-running ingestion.
const DefaultDebounce = 2 * time.Second

// Watcher re-runs ingestion whenever files under a directory change.
// Bursts of events collapse into a single run per quiet period.
type Watcher struct {
	ingestor *Ingestor
	dir      string
	debounce time.Duration
	logger   *zap.Logger
}

// NewWatcher creates a watcher over dir. A zero debounce uses
// DefaultDebounce.
func NewWatcher(ingestor *Ingestor, dir string, debounce time.Duration, logger *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		ingestor: ingestor,
		dir:      dir,
		debounce: debounce,
		logger:   logger,
	}
}

// Run performs an initial ingestion pass and then blocks, re-running
// ingestion after each debounced batch of create/write/rename events,
// until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := w.ingestor.Run(ctx, w.dir); err != nil {
		return err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating filesystem watcher: %w", err)
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(w.dir); err != nil {
		return fmt.Errorf("%w: watching %q: %v", ErrConfig, w.dir, err)
	}

	w.logger.Info("watching for document changes",
		zap.String("dir", w.dir),
		zap.Duration("debounce", w.debounce),
	)

	// The timer stays stopped until an interesting event arrives.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("document change detected",
				zap.String("file", event.Name),
				zap.String("op", event.Op.String()),
			)
			timer.Reset(w.debounce)

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			if _, err := w.ingestor.Run(ctx, w.dir); err != nil {
				w.logger.Warn("re-ingestion failed", zap.Error(err))
			}
		}
	}
}
