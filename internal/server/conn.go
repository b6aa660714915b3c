package server

import (
	"context"
	"net"
	"time"

	"github.com/staticd/staticd/internal/http"
	"github.com/staticd/staticd/internal/logger"
)

// readBufferSize bounds a request line. Anything past it is ignored;
// requests are never reassembled across reads.
const readBufferSize = 1024

// handleConnection runs on a pool worker: one read, one response, close.
//
// A request that cannot be parsed gets no response at all, the
// connection is simply closed. Write failures are logged and dropped;
// the connection closes either way and the client observes a truncated
// response.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer func() {
		conn.Close()
		s.metrics.RecordConnectionClosed()
	}()

	start := time.Now()

	buf := make([]byte, readBufferSize)
	n, err := conn.Read(buf)
	if err != nil {
		logger.Debug("Read from %s failed: %v", conn.RemoteAddr(), err)
		return
	}

	req, err := http.ParseRequest(buf[:n])
	if err != nil {
		if s.cfg.Server.Verbose {
			logger.Warn("Dropping malformed request from %s: %v", conn.RemoteAddr(), err)
		}
		return
	}

	resp := http.HandleConnection(ctx, req, s.cfg, s.store)

	var out []byte
	if req.Method == "HEAD" {
		out = resp.Header()
	} else {
		out = resp.Bytes()
	}

	if _, err := conn.Write(out); err != nil {
		logger.Warn("Write to %s failed: %v", conn.RemoteAddr(), err)
	}

	duration := time.Since(start)
	if s.cfg.Server.Verbose {
		logger.Info("\"%s\" %d %s (%dµs)",
			req, resp.Status.Code, resp.Status.Message, duration.Microseconds())
	}
	s.metrics.RecordRequest(req.Method, resp.Status.Code, duration)
}
