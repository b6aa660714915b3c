package http

import "strconv"

// Response is a complete, structured response. Error responses always
// carry the HTML error page as body and "text/html" as MIME type; a
// response never leaves Mime unset on an error.
type Response struct {
	Status Status
	Mime   string
	Body   []byte
}

// NewResponse wraps a handler outcome. On success the given body and MIME
// type are used as-is; on error the body is replaced by the status' HTML
// error page.
func NewResponse(status Status, mime string, body []byte, err error) *Response {
	if err != nil {
		return &Response{Status: status, Mime: "text/html", Body: status.ToHTML()}
	}
	return &Response{Status: status, Mime: mime, Body: body}
}

// ResponseFromStatus builds an error-page response for the given status.
func ResponseFromStatus(status Status) *Response {
	return &Response{Status: status, Mime: "text/html", Body: status.ToHTML()}
}

// Header renders the wire-format response header. Field order is fixed:
// status line, Content-Length, optional Content-Type, Connection: close,
// blank line.
func (r *Response) Header() []byte {
	header := r.Status.Line() + "\r\nContent-Length: " + strconv.Itoa(len(r.Body)) + "\r\n"
	if r.Mime != "" {
		header += "Content-Type: " + r.Mime + "\r\n"
	}
	header += "Connection: close\r\n\r\n"
	return []byte(header)
}

// Bytes renders header and body. HEAD responses are written with Header
// alone; this is the form for every other supported method.
func (r *Response) Bytes() []byte {
	header := r.Header()
	out := make([]byte, 0, len(header)+len(r.Body))
	out = append(out, header...)
	out = append(out, r.Body...)
	return out
}
