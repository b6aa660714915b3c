// Package content defines the content store abstraction used by the request
// handler to access served files.
//
// A Store exposes a read-only view of a tree of files rooted at Root(). The
// handler only ever calls a store with a resolved path, i.e. a path that has
// already passed the traversal guard and is known to be a descendant of (or
// equal to) Root(). Implementations interpret that path in their own
// namespace: the filesystem store maps it directly onto the local disk, the
// S3 store maps it onto object keys, the memory store onto an in-process map.
package content

import "context"

// Entry is a single child of a listed directory.
type Entry struct {
	// Name is the bare entry name, without any path components.
	Name string

	// IsDir reports whether the entry is itself a directory.
	IsDir bool
}

// Info describes a stored path.
type Info struct {
	// Size is the content size in bytes. Zero for directories.
	Size int64

	// IsDir reports whether the path names a directory.
	IsDir bool
}

// Store is a read-only content source.
//
// All paths passed to Stat, Read and List are resolved paths anchored at
// Root(). Implementations must map missing content to ErrNotFound and
// access failures to ErrPermissionDenied (wrapped, so errors.Is works);
// any other error is treated as an internal failure by the handler.
type Store interface {
	// Root returns the absolute root of the store's namespace. For the
	// filesystem store this is the served directory; virtual stores
	// return "/".
	Root() string

	// Stat describes the given path.
	Stat(ctx context.Context, path string) (Info, error)

	// Read returns the full content of the file at the given path.
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns the immediate children of the directory at the given
	// path, in no particular order.
	List(ctx context.Context, path string) ([]Entry, error)

	// Close releases any resources held by the store.
	Close() error
}
