package watch_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"chapterize/internal/testsupport"
	"chapterize/internal/watch"
)

type captureHandler struct {
	mu    sync.Mutex
	paths []string
}

func (c *captureHandler) handle(_ context.Context, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, path)
}

func (c *captureHandler) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.paths)
}

func (c *captureHandler) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.paths...)
}

func startWatcher(t *testing.T, dir string, settle time.Duration, handler watch.Handler) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := watch.New(dir, settle, handler, nil, watch.WithPollInterval(10*time.Millisecond))
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				t.Errorf("watcher exited: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop after cancellation")
		}
	})
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"book.mp3", true},
		{"book.m4b", true},
		{"Book.M4B", true},
		{"book.flac", true},
		{"book.ogg", true},
		{"/inbox/nested/book.wav", true},
		{".book.m4b", false},
		{"book.txt", false},
		{"book.mp3.part", false},
		{"book", false},
	}
	for _, tt := range tests {
		if got := watch.Allowed(tt.path); got != tt.want {
			t.Errorf("Allowed(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestRunDispatchesSettledFile(t *testing.T) {
	inbox := filepath.Join(t.TempDir(), "inbox")
	handler := &captureHandler{}
	startWatcher(t, inbox, 50*time.Millisecond, handler.handle)

	book := filepath.Join(inbox, "book.m4b")
	testsupport.WriteFile(t, book, 2048)

	if !waitFor(t, 5*time.Second, func() bool { return handler.count() == 1 }) {
		t.Fatalf("handler never fired, got %v", handler.snapshot())
	}
	if got := handler.snapshot()[0]; got != book {
		t.Fatalf("handler got %q, want %q", got, book)
	}
}

func TestRunWaitsForGrowingFile(t *testing.T) {
	inbox := filepath.Join(t.TempDir(), "inbox")
	handler := &captureHandler{}
	startWatcher(t, inbox, 150*time.Millisecond, handler.handle)

	book := filepath.Join(inbox, "book.mp3")
	testsupport.WriteFile(t, book, 1024)
	for i := 0; i < 5; i++ {
		time.Sleep(40 * time.Millisecond)
		testsupport.AppendFile(t, book, 1024)
	}
	if handler.count() != 0 {
		t.Fatal("handler fired while the file was still growing")
	}

	if !waitFor(t, 5*time.Second, func() bool { return handler.count() == 1 }) {
		t.Fatal("handler never fired after the file settled")
	}
}

func TestRunPicksUpPreexistingFiles(t *testing.T) {
	inbox := filepath.Join(t.TempDir(), "inbox")
	book := filepath.Join(inbox, "already-here.m4a")
	testsupport.WriteFile(t, book, 512)

	handler := &captureHandler{}
	startWatcher(t, inbox, 50*time.Millisecond, handler.handle)

	if !waitFor(t, 5*time.Second, func() bool { return handler.count() == 1 }) {
		t.Fatal("preexisting file was never dispatched")
	}
	if got := handler.snapshot()[0]; got != book {
		t.Fatalf("handler got %q, want %q", got, book)
	}
}

func TestRunIgnoresUnsupportedFiles(t *testing.T) {
	inbox := filepath.Join(t.TempDir(), "inbox")
	handler := &captureHandler{}
	startWatcher(t, inbox, 50*time.Millisecond, handler.handle)

	testsupport.WriteFile(t, filepath.Join(inbox, "notes.txt"), 256)
	testsupport.WriteFile(t, filepath.Join(inbox, ".hidden.m4b"), 256)

	time.Sleep(300 * time.Millisecond)
	if handler.count() != 0 {
		t.Fatalf("handler fired for unsupported files: %v", handler.snapshot())
	}
}

func TestRunDispatchesEachFileOnce(t *testing.T) {
	inbox := filepath.Join(t.TempDir(), "inbox")
	handler := &captureHandler{}
	startWatcher(t, inbox, 50*time.Millisecond, handler.handle)

	book := filepath.Join(inbox, "book.flac")
	testsupport.WriteFile(t, book, 2048)

	if !waitFor(t, 5*time.Second, func() bool { return handler.count() == 1 }) {
		t.Fatal("handler never fired")
	}
	time.Sleep(300 * time.Millisecond)
	if handler.count() != 1 {
		t.Fatalf("settled file dispatched %d times, want once", handler.count())
	}
}
