package http

import (
	"errors"
	"testing"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name       string
		buf        string
		wantMethod string
		wantPath   string
	}{
		{
			name:       "simple GET",
			buf:        "GET /index.html HTTP/1.1\r\nHost: localhost\r\n\r\n",
			wantMethod: "GET",
			wantPath:   "/index.html",
		},
		{
			name:       "HEAD request",
			buf:        "HEAD / HTTP/1.1\r\n\r\n",
			wantMethod: "HEAD",
			wantPath:   "/",
		},
		{
			name:       "unsupported method still parses",
			buf:        "POST /submit HTTP/1.1\r\n\r\n",
			wantMethod: "POST",
			wantPath:   "/submit",
		},
		{
			name:       "bare tokens without CRLF",
			buf:        "GET /a.txt HTTP/1.0",
			wantMethod: "GET",
			wantPath:   "/a.txt",
		},
		{
			name:       "extra whitespace between tokens",
			buf:        "GET   /a.txt   HTTP/1.1",
			wantMethod: "GET",
			wantPath:   "/a.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest([]byte(tt.buf))
			if err != nil {
				t.Fatalf("ParseRequest(%q) returned error: %v", tt.buf, err)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method = %q, want %q", req.Method, tt.wantMethod)
			}
			if req.FilePath != tt.wantPath {
				t.Errorf("FilePath = %q, want %q", req.FilePath, tt.wantPath)
			}
		})
	}
}

func TestParseRequest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		buf     []byte
		wantErr error
	}{
		{name: "empty buffer", buf: []byte(""), wantErr: ErrNoMethod},
		{name: "whitespace only", buf: []byte("  \r\n  "), wantErr: ErrNoMethod},
		{name: "method only", buf: []byte("GET"), wantErr: ErrNoPath},
		{name: "method and path only", buf: []byte("GET /index.html"), wantErr: ErrNoPath},
		{name: "invalid utf8", buf: []byte{'G', 'E', 'T', ' ', 0xff, 0xfe}, wantErr: ErrInvalidEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest(tt.buf)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseRequest(%q) error = %v, want %v", tt.buf, err, tt.wantErr)
			}
		})
	}
}

func TestRequest_String(t *testing.T) {
	req := &Request{Method: "GET", FilePath: "/a.txt"}
	want := "GET /a.txt HTTP/1.1"
	if got := req.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
