package directory

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Buffer is an in-memory table body. The zero value is ready to use.
type Buffer struct {
	mu   sync.Mutex
	rows []string
}

func (b *Buffer) Append(markup string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows = append(b.rows, markup)
	return nil
}

// Rows returns a copy of the appended rows.
func (b *Buffer) Rows() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.rows...)
}

// String returns the body content as the concatenation of all rows.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.rows, "")
}

// Reset clears the body. Load never calls it.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows = nil
}

// WriterContainer writes each row as one line to W.
type WriterContainer struct {
	W io.Writer
}

func (w WriterContainer) Append(markup string) error {
	_, err := fmt.Fprintln(w.W, markup)
	return err
}

// FileContainer appends rows to a file, creating it when missing.
type FileContainer struct {
	Path string
}

func (f FileContainer) Append(markup string) error {
	clean := filepath.Clean(f.Path)
	// #nosec G304 -- output path is chosen by the user on the command line
	fh, err := os.OpenFile(clean, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(fh, markup); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
