package repl

import (
	"bufio"
	"os"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// HistoryEntry represents a single history entry with its mode.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// History manages command history with file persistence. Entries are
// prefixed with "E:" (eval) or "C:" (ctrl) so both modes share one file.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory creates a new History instance with the given file path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load reads history entries from the history file. A missing file is not
// an error.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		mode := modeEval

		if s, ok := strings.CutPrefix(line, "C:"); ok {
			mode, line = modeCtrl, s
		} else if s, ok := strings.CutPrefix(line, "E:"); ok {
			line = s
		}

		h.entries = append(h.entries, HistoryEntry{Line: line, Mode: mode})
	}

	return scanner.Err()
}

// Write appends a new entry with the given mode, skipping blank input and
// immediate repeats.
func (h *History) Write(entry string, mode inputMode) (int, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return 0, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) > 0 {
		last := h.entries[len(h.entries)-1]
		if last.Line == entry && last.Mode == mode {
			return len(entry), nil
		}
	}

	h.entries = append(h.entries, HistoryEntry{Line: entry, Mode: mode})

	file, err := os.OpenFile(
		h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600,
	)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	prefix := "E:"
	if mode == modeCtrl {
		prefix = "C:"
	}

	return file.WriteString(prefix + entry + "\n")
}

// GetEntry retrieves a historic entry by index. Index 0 is the oldest.
func (h *History) GetEntry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}
