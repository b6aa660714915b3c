// Package memory implements an in-memory content store. It is used for
// tests and ephemeral serving; all data is lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/staticd/staticd/pkg/content"
)

// MemoryStore keeps file contents in a map keyed by rooted path
// ("/dir/file.txt"). Directories are implicit: a path is a directory when
// at least one stored file lives below it.
//
// Thread safety: protected by an RWMutex; reads copy data so callers
// never alias the stored slices.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func New() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte)}
}

// WriteFile stores data under the given rooted path, creating implicit
// parent directories. Used to seed the store.
func (s *MemoryStore) WriteFile(path string, data []byte) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = append([]byte(nil), data...)
}

func (s *MemoryStore) Root() string {
	return "/"
}

func (s *MemoryStore) Stat(ctx context.Context, path string) (content.Info, error) {
	if err := ctx.Err(); err != nil {
		return content.Info{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if data, ok := s.files[path]; ok {
		return content.Info{Size: int64(len(data))}, nil
	}
	if s.isDirLocked(path) {
		return content.Info{IsDir: true}, nil
	}
	return content.Info{}, fmt.Errorf("stat %s: %w", path, content.ErrNotFound)
}

func (s *MemoryStore) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, content.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) List(ctx context.Context, path string) ([]content.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isDirLocked(path) {
		return nil, fmt.Errorf("list %s: %w", path, content.ErrNotFound)
	}

	prefix := strings.TrimSuffix(path, "/") + "/"
	seen := make(map[string]bool)
	var entries []content.Entry

	for file := range s.files {
		if !strings.HasPrefix(file, prefix) {
			continue
		}
		rest := strings.TrimPrefix(file, prefix)
		name, isDir := rest, false
		if i := strings.Index(rest, "/"); i >= 0 {
			name, isDir = rest[:i], true
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		entries = append(entries, content.Entry{Name: name, IsDir: isDir})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) isDirLocked(path string) bool {
	if path == "/" {
		return true
	}
	prefix := strings.TrimSuffix(path, "/") + "/"
	for file := range s.files {
		if strings.HasPrefix(file, prefix) {
			return true
		}
	}
	return false
}
