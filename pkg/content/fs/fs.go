// Package fs implements the content store over a local directory tree.
// This is the default store: it serves the configured root directory
// directly from disk.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/staticd/staticd/pkg/content"
)

// FSStore serves files below an absolute root directory.
//
// The store performs no path validation of its own: it trusts that every
// path it receives has already passed the traversal guard and is a
// descendant of Root().
type FSStore struct {
	root string
}

// New creates a store rooted at the given directory. The directory must
// exist; the root is resolved to an absolute path at construction so that
// the traversal guard has a stable anchor.
func New(root string) (*FSStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat root %q: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %q is not a directory", abs)
	}

	return &FSStore{root: abs}, nil
}

func (s *FSStore) Root() string {
	return s.root
}

func (s *FSStore) Stat(ctx context.Context, path string) (content.Info, error) {
	if err := ctx.Err(); err != nil {
		return content.Info{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return content.Info{}, classify("stat", path, err)
	}
	return content.Info{Size: info.Size(), IsDir: info.IsDir()}, nil
}

func (s *FSStore) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, classify("read", path, err)
	}
	return data, nil
}

func (s *FSStore) List(ctx context.Context, path string) ([]content.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, classify("list", path, err)
	}

	entries := make([]content.Entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		entries = append(entries, content.Entry{Name: e.Name(), IsDir: e.IsDir()})
	}
	return entries, nil
}

func (s *FSStore) Close() error {
	return nil
}

// classify maps OS errors onto the store error taxonomy so the handler
// can translate them into status codes with errors.Is.
func classify(op, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s %s: %w", op, path, content.ErrNotFound)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%s %s: %w", op, path, content.ErrPermissionDenied)
	default:
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
}
