package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNewRejectsNonSpreadsheet(t *testing.T) {
	if _, err := New("notes.txt", nil); err == nil {
		t.Error("expected error for non-spreadsheet path")
	}
	if _, err := New(filepath.Join(t.TempDir(), "missing.xlsx"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWatcherTriggersOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "posts.xlsx")
	touch(t, path, "v1")

	triggered := make(chan string, 4)
	w, err := New(path, func(ctx context.Context, p string) error {
		triggered <- p
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	w.Debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register, then rewrite the file.
	time.Sleep(100 * time.Millisecond)
	touch(t, path, "v2")

	select {
	case got := <-triggered:
		if got != path {
			t.Errorf("handler got %q, want %q", got, path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("handler not triggered after write")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run returned %v", err)
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "posts.xlsx")
	touch(t, path, "v1")

	triggered := make(chan string, 4)
	w, err := New(path, func(ctx context.Context, p string) error {
		triggered <- p
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	w.Debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	touch(t, filepath.Join(dir, "other.xlsx"), "x")

	select {
	case <-triggered:
		t.Fatal("handler triggered by an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}
