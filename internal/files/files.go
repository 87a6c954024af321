// Package files lists and reads files under the sandboxed data root.
package files

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/gauthk/dataconsole/internal/security"
)

// ErrTooLarge indicates a file exceeds the configured read size cap.
var ErrTooLarge = errors.New("files: file exceeds configured size")

// Content is the payload returned for a file read. Filename echoes the
// caller's requested name, not the resolved path.
type Content struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Service provides sandboxed read-only file operations.
type Service struct {
	sandbox  *security.Manager
	maxBytes int64
}

// NewService constructs a Service over the sandbox with a per-read byte cap.
func NewService(sandbox *security.Manager, maxBytes int64) *Service {
	return &Service{sandbox: sandbox, maxBytes: maxBytes}
}

// List returns the names of regular files directly under the data root,
// sorted lexically. Subdirectories are skipped.
func (s *Service) List() ([]string, error) {
	entries, err := os.ReadDir(s.sandbox.Root())
	if err != nil {
		return nil, fmt.Errorf("files: read data dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Read resolves name through the sandbox, enforces the size cap with a single
// stat, and reads the file once.
func (s *Service) Read(name string) (Content, error) {
	path, err := s.sandbox.Resolve(name)
	if err != nil {
		return Content{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Content{}, security.ErrNotFound
		}
		return Content{}, fmt.Errorf("files: stat %q: %w", name, err)
	}
	if info.IsDir() {
		return Content{}, security.ErrNotFound
	}
	if s.maxBytes > 0 && info.Size() > s.maxBytes {
		return Content{}, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), s.maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("files: read %q: %w", name, err)
	}
	return Content{Filename: name, Content: string(data)}, nil
}
