package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestWants(t *testing.T) {
	w := New(t.TempDir(), func(string) {})
	tests := []struct {
		path string
		want bool
	}{
		{"bo_2020_01.txt", true},
		{"bo_2020_01.PDF", true},
		{"notes.md", true},
		{"archive.zip", false},
		{"no-extension", false},
	}
	for _, tt := range tests {
		if got := w.wants(tt.path); got != tt.want {
			t.Errorf("wants(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDebouncedBursts(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
	)
	w := New(t.TempDir(), func(path string) {
		mu.Lock()
		calls = append(calls, path)
		mu.Unlock()
	}, WithDebounce(30*time.Millisecond))

	// Three rapid events on the same file must collapse into one call.
	w.arm("a.txt")
	w.arm("a.txt")
	w.arm("a.txt")
	w.arm("b.txt")

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 2 {
		t.Fatalf("calls = %v, want one per file", calls)
	}
	seen := map[string]bool{}
	for _, c := range calls {
		seen[c] = true
	}
	if !seen["a.txt"] || !seen["b.txt"] {
		t.Errorf("calls = %v", calls)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, func(string) {}, WithDebounce(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register, then trigger one event.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "bo.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
