package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Manager enforces the data-root sandbox for all file operations. It stores
// the canonical absolute data root and resolves requested filenames to
// canonical paths, guaranteeing the result never escapes the root.
type Manager struct {
	root string
}

// ErrOutsideRoot indicates the requested path resolves outside the data root.
var ErrOutsideRoot = errors.New("security: access outside data directory is forbidden")

// ErrNotFound indicates the requested file does not exist or is not accessible.
var ErrNotFound = errors.New("security: file not found")

// NewManager constructs a sandbox rooted at dir. The root is canonicalized
// (absolute + EvalSymlinks) so that a symlinked root cannot be used to escape
// later, and must be an existing directory.
func NewManager(dir string) (*Manager, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("security: data root is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("security: resolve abs for %q: %w", dir, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("security: eval symlinks for %q: %w", abs, err)
	}
	info, err := os.Stat(real)
	if err != nil {
		return nil, fmt.Errorf("security: stat %q: %w", real, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("security: data root is not a directory: %q", real)
	}
	return &Manager{root: filepath.Clean(real)}, nil
}

// Root returns the canonical data root.
func (m *Manager) Root() string {
	return m.root
}

// Resolve maps a requested filename to a canonical absolute path inside the
// data root. Relative names are joined to the root; absolute names are taken
// as-is and must still land inside the root. Containment is checked twice:
// once lexically after cleaning (so escapes are denied even for files that do
// not exist) and again after EvalSymlinks (so a symlink inside the root cannot
// point outside it).
func (m *Manager) Resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrOutsideRoot
	}

	joined := name
	if !filepath.IsAbs(joined) {
		joined = filepath.Join(m.root, joined)
	}
	cleaned := filepath.Clean(joined)
	if !m.contains(cleaned) {
		return "", ErrOutsideRoot
	}

	real, err := filepath.EvalSymlinks(cleaned)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("security: eval symlinks: %w", err)
	}
	if !m.contains(real) {
		return "", ErrOutsideRoot
	}
	return real, nil
}

// contains reports whether path is the root itself or a descendant of it.
// The check is component-wise via filepath.Rel, never a raw substring
// comparison, so a sibling like /data-evil does not pass for root /data.
func (m *Manager) contains(path string) bool {
	rel, err := filepath.Rel(m.root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
