// Package http implements the minimal HTTP/1.1 subset staticd speaks:
// request-line parsing, the GET/HEAD request handler and response
// construction. It is not a general HTTP implementation and does not try
// to be one; persistent connections, bodies and chunked transfer are out
// of scope, and every response closes the connection.
package http

import (
	"strings"
	"unicode/utf8"
)

// Request is a parsed request line.
//
// Both fields alias the read buffer's string conversion and are immutable
// after construction. FilePath is the raw, still-encoded request path; it
// must never be used for store access directly (see files.Resolve).
type Request struct {
	Method   string
	FilePath string
}

// ParseRequest extracts method and path from a raw request buffer.
//
// The buffer is the result of a single read from the connection; partial
// request lines are parse failures, never reassembled. The buffer must be
// valid UTF-8 and contain at least three whitespace-separated tokens
// (method, path, protocol version). Method legality is not checked here;
// unsupported methods are rejected by the handler with a 501.
func ParseRequest(buf []byte) (*Request, error) {
	if !utf8.Valid(buf) {
		return nil, ErrInvalidEncoding
	}

	tokens := strings.Fields(string(buf))
	if len(tokens) < 1 {
		return nil, ErrNoMethod
	}
	if len(tokens) < 3 {
		return nil, ErrNoPath
	}

	return &Request{Method: tokens[0], FilePath: tokens[1]}, nil
}

func (r *Request) String() string {
	return r.Method + " " + r.FilePath + " HTTP/1.1"
}
