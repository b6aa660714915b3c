package content

import "errors"

// Standard content store errors.
//
// Implementations wrap these with context so callers can classify failures
// with errors.Is while still logging the underlying cause:
//
//	return nil, fmt.Errorf("stat %s: %w", path, content.ErrNotFound)
var (
	// ErrNotFound indicates the requested path does not exist.
	ErrNotFound = errors.New("content not found")

	// ErrPermissionDenied indicates the path exists but may not be read.
	ErrPermissionDenied = errors.New("permission denied")
)
