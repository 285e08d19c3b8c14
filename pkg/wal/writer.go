package wal

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// header is written once when a log file is created.
const header = "# ledgerd transaction log (one JSON object per line)\n"

// Writer appends JSON records to the transaction log.
// Append is safe for concurrent use; records never interleave mid-line.
type Writer struct {
	mu   sync.Mutex
	file *os.File
}

// Open opens the log at path for appending, creating it (with the comment
// header) if it does not exist.
func Open(path string) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open wal: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat wal: %w", err)
	}
	if info.Size() == 0 {
		if _, err := file.WriteString(header); err != nil {
			file.Close()
			return nil, fmt.Errorf("write wal header: %w", err)
		}
	}

	return &Writer{file: file}, nil
}

// Append marshals v as one JSON line and fsyncs before returning.
// The record is durable once Append returns nil.
func (w *Writer) Append(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := json.NewEncoder(w.file).Encode(v); err != nil {
		return fmt.Errorf("append wal: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("sync wal: %w", err)
	}
	return nil
}

// Close closes the underlying file. Append must not be called after Close.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
