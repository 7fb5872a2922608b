package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Writer writes generated files below a single output root. It is safe for
// concurrent use.
type Writer struct {
	root    string
	exclude func(string) bool

	mu      sync.Mutex
	written []string
	skipped []string
}

// NewWriter returns a Writer rooted at root. exclude, when not nil, is given
// the absolute target path and reports whether the file must not be written.
func NewWriter(root string, exclude func(string) bool) (*Writer, error) {
	abs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return nil, fmt.Errorf("render: cannot resolve output root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("render: failed to create output root %s: %w", abs, err)
	}
	return &Writer{root: abs, exclude: exclude}, nil
}

// Root returns the absolute output root.
func (w *Writer) Root() string { return w.root }

// Path resolves a slash-separated location against the root, refusing
// anything that escapes it.
func (w *Writer) Path(location string) (string, error) {
	target := filepath.Join(w.root, filepath.FromSlash(location))
	rel, err := filepath.Rel(w.root, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("render: location %q escapes output root", location)
	}
	return target, nil
}

// Write stores data at location, creating parent directories. Excluded
// locations are recorded and skipped.
func (w *Writer) Write(location string, data []byte) error {
	target, err := w.Path(location)
	if err != nil {
		return err
	}
	if w.exclude != nil && w.exclude(target) {
		w.record(&w.skipped, location)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("render: failed to create directory for %s: %w", location, err)
	}
	if err := rejectSymlink(target); err != nil {
		return err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("render: failed to write %s: %w", location, err)
	}
	w.record(&w.written, location)
	return nil
}

func (w *Writer) record(list *[]string, location string) {
	w.mu.Lock()
	*list = append(*list, location)
	w.mu.Unlock()
}

// Written returns the written locations in ascending order.
func (w *Writer) Written() []string { return w.sorted(w.written) }

// Skipped returns the excluded locations in ascending order.
func (w *Writer) Skipped() []string { return w.sorted(w.skipped) }

func (w *Writer) sorted(list []string) []string {
	w.mu.Lock()
	out := append([]string(nil), list...)
	w.mu.Unlock()
	sort.Strings(out)
	return out
}

// rejectSymlink refuses to write through a symlink placed at the target.
func rejectSymlink(path string) error {
	info, err := os.Lstat(path)
	switch {
	case err == nil:
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("render: refusing to write to symlink: %s", path)
		}
	case os.IsNotExist(err):
	default:
		return fmt.Errorf("render: cannot stat path: %w", err)
	}
	return nil
}
