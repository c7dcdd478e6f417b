// Package history keeps a local record of submitted requests so
// `intake history` can list what was sent and whether delivery worked.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raphi011/intake/internal/intake"
	"github.com/raphi011/intake/internal/storage"
)

// FileName is the history file inside the data directory.
const FileName = "history.json"

// DefaultLimit caps the number of stored entries when no limit is configured.
const DefaultLimit = 50

// Entry is one submitted request.
type Entry struct {
	Payload   intake.SubmitPayload `json:"payload"`
	Delivered bool                 `json:"delivered"`
	Error     string               `json:"error,omitempty"`
}

// History holds entries, newest first.
type History struct {
	Entries []Entry `json:"entries"`
}

// Path returns the history file path inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Load reads the history from path. A missing or corrupted file yields
// an empty history.
func Load(path string) (*History, error) {
	var h History
	if err := storage.LoadJSON(path, &h); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &History{}, nil
		}
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return nil, fmt.Errorf("read history: %w", err)
		}
		// Corrupted - start fresh
		return &History{}, nil
	}
	return &h, nil
}

// Save writes the history to path atomically.
func (h *History) Save(path string) error {
	if err := storage.SaveJSON(path, h); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// Add prepends e and drops the oldest entries beyond limit.
// A limit <= 0 uses DefaultLimit.
func (h *History) Add(e Entry, limit int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	h.Entries = append([]Entry{e}, h.Entries...)
	if len(h.Entries) > limit {
		h.Entries = h.Entries[:limit]
	}
}

// Recent returns at most n entries, newest first. n <= 0 returns all.
func (h *History) Recent(n int) []Entry {
	if n <= 0 || n >= len(h.Entries) {
		return h.Entries
	}
	return h.Entries[:n]
}

// NewEntry builds an entry from a confirmed payload and its delivery result.
func NewEntry(p intake.SubmitPayload, sendErr error) Entry {
	e := Entry{Payload: p, Delivered: sendErr == nil}
	if sendErr != nil {
		e.Error = sendErr.Error()
	}
	return e
}

// Record loads the history at path, adds e and saves it while holding the
// history lock.
func Record(path string, e Entry, limit int) error {
	return storage.WithLock(path, func() error {
		h, err := Load(path)
		if err != nil {
			return err
		}
		h.Add(e, limit)
		return h.Save(path)
	})
}
