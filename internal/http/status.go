package http

import (
	"errors"
	stdhtml "html"
	"strconv"

	"github.com/staticd/staticd/pkg/content"
)

// Status is an HTTP status line plus an optional attacker-visible comment
// rendered into the error page body.
//
// Code is always one of the supported set {200, 403, 404, 500, 501};
// unclassified failures fold into 500.
type Status struct {
	Code    int
	Message string
	Comment string
}

func NewStatus(code int, message, comment string) Status {
	return Status{Code: code, Message: message, Comment: comment}
}

// StatusFromCode builds a Status for a known code. Codes outside the
// supported set fold into 500.
func StatusFromCode(code int) Status {
	var message string
	switch code {
	case 200:
		message = "OK"
	case 403:
		message = "Forbidden"
	case 404:
		message = "Not Found"
	case 501:
		message = "Not Implemented"
	default:
		code = 500
		message = "Internal Server Error"
	}
	return Status{Code: code, Message: message}
}

// StatusFromError classifies a store error into a Status.
//
// nil maps to 200. Not-found and permission failures map to 404 and 403
// without a comment; anything else is an internal failure and carries the
// error text as comment (escaped at render time).
func StatusFromError(err error) Status {
	switch {
	case err == nil:
		return StatusFromCode(200)
	case errors.Is(err, content.ErrNotFound):
		return StatusFromCode(404)
	case errors.Is(err, content.ErrPermissionDenied):
		return StatusFromCode(403)
	default:
		s := StatusFromCode(500)
		s.Comment = err.Error()
		return s
	}
}

// Line returns the HTTP/1.1 status line, without the trailing CRLF.
func (s Status) Line() string {
	return "HTTP/1.1 " + strconv.Itoa(s.Code) + " " + s.Message
}

// ToHTML renders the status as the shared error page. The comment, when
// present, is HTML-escaped: it may carry text derived from untrusted
// filenames and must not inject markup.
func (s Status) ToHTML() []byte {
	body := s.Message
	if s.Comment != "" {
		body += "</p><p>" + stdhtml.EscapeString(s.Comment)
	}
	return []byte(Doc(s.Code, s.Code, body))
}
