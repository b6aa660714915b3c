package http

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/staticd/staticd/pkg/content"
)

func TestStatusFromCode(t *testing.T) {
	tests := []struct {
		code        int
		wantCode    int
		wantMessage string
	}{
		{code: 200, wantCode: 200, wantMessage: "OK"},
		{code: 403, wantCode: 403, wantMessage: "Forbidden"},
		{code: 404, wantCode: 404, wantMessage: "Not Found"},
		{code: 500, wantCode: 500, wantMessage: "Internal Server Error"},
		{code: 501, wantCode: 501, wantMessage: "Not Implemented"},
		// Unsupported codes fold into 500.
		{code: 418, wantCode: 500, wantMessage: "Internal Server Error"},
		{code: 302, wantCode: 500, wantMessage: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("code_%d", tt.code), func(t *testing.T) {
			s := StatusFromCode(tt.code)
			if s.Code != tt.wantCode || s.Message != tt.wantMessage {
				t.Errorf("StatusFromCode(%d) = %d %q, want %d %q",
					tt.code, s.Code, s.Message, tt.wantCode, tt.wantMessage)
			}
		})
	}
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantComment string
	}{
		{name: "nil is 200", err: nil, wantCode: 200},
		{
			name:     "not found is 404",
			err:      fmt.Errorf("read /x: %w", content.ErrNotFound),
			wantCode: 404,
		},
		{
			name:     "permission denied is 403",
			err:      fmt.Errorf("read /x: %w", content.ErrPermissionDenied),
			wantCode: 403,
		},
		{
			name:        "anything else is 500 with comment",
			err:         errors.New("disk on fire"),
			wantCode:    500,
			wantComment: "disk on fire",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := StatusFromError(tt.err)
			if s.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", s.Code, tt.wantCode)
			}
			if s.Comment != tt.wantComment {
				t.Errorf("Comment = %q, want %q", s.Comment, tt.wantComment)
			}
		})
	}
}

func TestStatus_Line(t *testing.T) {
	s := NewStatus(404, "Not Found", "")
	want := "HTTP/1.1 404 Not Found"
	if got := s.Line(); got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
}

func TestStatus_ToHTML(t *testing.T) {
	s := StatusFromCode(404)
	page := string(s.ToHTML())

	if !strings.Contains(page, "<title>404</title>") {
		t.Errorf("error page missing title: %q", page)
	}
	if !strings.Contains(page, "<h1>404</h1>") {
		t.Errorf("error page missing heading: %q", page)
	}
	if !strings.Contains(page, "<p>Not Found</p>") {
		t.Errorf("error page missing message: %q", page)
	}
	if !strings.HasSuffix(page, "</html>\n") {
		t.Errorf("error page must end with </html> and newline: %q", page)
	}
}

func TestStatus_ToHTML_EscapesComment(t *testing.T) {
	s := NewStatus(500, "Internal Server Error", `open /srv/<script>alert(1)</script>: boom`)
	page := string(s.ToHTML())

	if strings.Contains(page, "<script>") {
		t.Errorf("comment was not escaped: %q", page)
	}
	if !strings.Contains(page, "&lt;script&gt;") {
		t.Errorf("expected escaped comment in page: %q", page)
	}
	if !strings.Contains(page, "</p><p>") {
		t.Errorf("comment must render as its own paragraph: %q", page)
	}
}
