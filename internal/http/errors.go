package http

import "errors"

// Request validation errors. A request that fails to parse never receives
// an HTTP response; the connection is closed instead.
var (
	// ErrNoMethod indicates the request line has no method token.
	ErrNoMethod = errors.New("request does not have an associated HTTP method")

	// ErrNoPath indicates the request line has no path token, or is
	// missing the protocol version token that must follow the path.
	ErrNoPath = errors.New("request does not have an associated request path")

	// ErrInvalidEncoding indicates the request buffer is not valid UTF-8.
	ErrInvalidEncoding = errors.New("request contains invalid UTF-8 characters")
)
