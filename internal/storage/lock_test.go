package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestLock_Path(t *testing.T) {
	t.Parallel()

	if got := NewLock("/data/history.json").Path(); got != "/data/history.json.lock" {
		t.Errorf("Path() = %q", got)
	}
}

func TestLock_LockUnlock(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "nested", "history.json")
	l := NewLock(target)

	if err := l.Lock(); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if _, err := os.Stat(l.Path()); err != nil {
		t.Errorf("lock file should exist: %v", err)
	}
	if err := l.Lock(); err != nil {
		t.Errorf("relocking a held lock should be a no-op, got %v", err)
	}
	if err := l.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if err := l.Unlock(); err != nil {
		t.Errorf("second Unlock() should be a no-op, got %v", err)
	}
}

func TestLock_Exclusive(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "history.json")
	first := NewLock(target)
	if err := first.Lock(); err != nil {
		t.Fatal(err)
	}

	acquired := make(chan struct{})
	go func() {
		second := NewLock(target)
		if err := second.Lock(); err != nil {
			t.Errorf("second Lock() error = %v", err)
		}
		close(acquired)
		second.Unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while the first was held")
	case <-time.After(50 * time.Millisecond):
	}

	if err := first.Unlock(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second lock not acquired after unlock")
	}
}

func TestWithLock(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "history.json")

	t.Run("returns fn error", func(t *testing.T) {
		want := errors.New("boom")
		if err := WithLock(target, func() error { return want }); !errors.Is(err, want) {
			t.Errorf("WithLock() = %v, want %v", err, want)
		}
	})

	t.Run("serializes callers", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			active  int
			overlap bool
		)
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = WithLock(target, func() error {
					mu.Lock()
					active++
					if active > 1 {
						overlap = true
					}
					mu.Unlock()
					time.Sleep(5 * time.Millisecond)
					mu.Lock()
					active--
					mu.Unlock()
					return nil
				})
			}()
		}
		wg.Wait()
		if overlap {
			t.Error("callers overlapped inside WithLock")
		}
	})
}
