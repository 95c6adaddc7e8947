package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"chapterize/internal/fileutil"
	"chapterize/internal/logging"
)

const defaultPollInterval = 500 * time.Millisecond

var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".m4a":  {},
	".m4b":  {},
	".aac":  {},
	".flac": {},
	".ogg":  {},
	".wav":  {},
}

// Allowed reports whether path names an audio file the watcher picks up.
// Hidden files are skipped so in-flight copy artifacts stay invisible.
func Allowed(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(base))]
	return ok
}

// Handler receives a settled inbox file. It runs on the watch loop, so one
// book is processed at a time.
type Handler func(ctx context.Context, path string)

// Option configures a Watcher.
type Option func(*Watcher)

// WithPollInterval overrides how often pending files are re-measured
// (primarily for tests).
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.poll = d
		}
	}
}

// Watcher hands settled audio files from one directory to a Handler.
type Watcher struct {
	dir     string
	settle  time.Duration
	poll    time.Duration
	handler Handler
	logger  *slog.Logger
}

// pending tracks one file waiting to settle.
type pending struct {
	size    int64
	changed time.Time
}

// New constructs a Watcher over dir. Files must hold a stable size for the
// settle duration before they are dispatched.
func New(dir string, settle time.Duration, handler Handler, logger *slog.Logger, opts ...Option) *Watcher {
	w := &Watcher{
		dir:     dir,
		settle:  settle,
		poll:    defaultPollInterval,
		handler: handler,
		logger:  logging.NewComponentLogger(logger, "watch"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.poll > w.settle && w.settle > 0 {
		w.poll = w.settle
	}
	return w
}

// Run watches the inbox until ctx is canceled. Files already sitting in the
// directory at startup are picked up too. The returned error is ctx.Err()
// after cancellation or a watcher setup failure.
func (w *Watcher) Run(ctx context.Context) error {
	if w.handler == nil {
		return fmt.Errorf("watch: handler required")
	}
	if err := fileutil.EnsureDir(w.dir); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	tracked := make(map[string]*pending)
	handled := make(map[string]struct{})
	w.rescan(tracked, handled)
	w.logger.Info("watching inbox", logging.String("dir", w.dir))

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event, tracked, handled)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", logging.Error(err))
		case now := <-ticker.C:
			w.dispatchSettled(ctx, tracked, handled, now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event, tracked map[string]*pending, handled map[string]struct{}) {
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		delete(tracked, event.Name)
		delete(handled, event.Name)
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !Allowed(event.Name) {
		return
	}
	// A write to an already-handled file means new content under an old
	// name; treat it as a fresh arrival.
	delete(handled, event.Name)
	w.track(tracked, event.Name)
}

func (w *Watcher) track(tracked map[string]*pending, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	entry, ok := tracked[path]
	if !ok {
		w.logger.Info("file arrived", logging.String(logging.FieldInput, path))
		tracked[path] = &pending{size: info.Size(), changed: time.Now()}
		return
	}
	if info.Size() != entry.size {
		entry.size = info.Size()
		entry.changed = time.Now()
	}
}

func (w *Watcher) dispatchSettled(ctx context.Context, tracked map[string]*pending, handled map[string]struct{}, now time.Time) {
	for path, entry := range tracked {
		info, err := os.Stat(path)
		if err != nil {
			delete(tracked, path)
			continue
		}
		if info.Size() != entry.size {
			entry.size = info.Size()
			entry.changed = now
			continue
		}
		if now.Sub(entry.changed) < w.settle {
			continue
		}
		delete(tracked, path)
		handled[path] = struct{}{}
		w.logger.Info("file settled", logging.String(logging.FieldInput, path))
		w.handler(ctx, path)
		if ctx.Err() != nil {
			return
		}
	}
	// The handler can block this loop long enough for kernel event queues
	// to overflow, so sweep the directory to catch anything missed.
	w.rescan(tracked, handled)
}

func (w *Watcher) rescan(tracked map[string]*pending, handled map[string]struct{}) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("inbox scan failed", logging.Error(err))
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if !Allowed(path) {
			continue
		}
		if _, ok := handled[path]; ok {
			continue
		}
		if _, ok := tracked[path]; ok {
			continue
		}
		w.track(tracked, path)
	}
}
