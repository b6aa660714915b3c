// Package server owns the TCP accept loop and connection lifecycle: it
// listens, rate-limits accepts, and hands each connection to the worker
// pool for request handling.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/staticd/staticd/internal/logger"
	"github.com/staticd/staticd/internal/pool"
	"github.com/staticd/staticd/internal/ratelimiter"
	"github.com/staticd/staticd/pkg/config"
	"github.com/staticd/staticd/pkg/content"
	"github.com/staticd/staticd/pkg/metrics"
)

// Server accepts connections and dispatches them to a fixed worker pool.
//
// Connections are never handled on the accept goroutine: every accepted
// connection becomes one pool job, so at most Threads requests are in
// flight and the rest wait in the pool queue.
type Server struct {
	cfg     *config.Config
	store   content.Store
	pool    *pool.Pool
	limiter *ratelimiter.RateLimiter
	metrics metrics.HTTPMetrics

	mu       sync.Mutex
	listener net.Listener
}

// New creates a server from the given configuration and content store.
// A nil httpMetrics falls back to the no-op implementation.
func New(cfg *config.Config, store content.Store, httpMetrics metrics.HTTPMetrics) (*Server, error) {
	p, err := pool.New(cfg.Server.Threads)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	if httpMetrics == nil {
		httpMetrics = metrics.NewNoopHTTPMetrics()
	}
	httpMetrics.SetQueueDepthFunc(p.QueueLen)

	return &Server{
		cfg:     cfg,
		store:   store,
		pool:    p,
		limiter: ratelimiter.New(cfg.Server.RequestsPerSecond, cfg.Server.Burst),
		metrics: httpMetrics,
	}, nil
}

// Serve listens on the configured address and accepts connections until
// the context is cancelled or the listener fails.
//
// Cancellation closes the listener, which unblocks Accept; queued and
// in-flight connections are drained by Stop, not here.
func (s *Server) Serve(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Server.Address, strconv.Itoa(s.cfg.Server.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	logger.Info("Listening on %s with %d workers", addr, s.pool.Size())

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	// Cancellation only stops accepting. Connections already queued are
	// served during the drain, so handling must not inherit it.
	handleCtx := context.WithoutCancel(ctx)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.metrics.RecordConnectionAccepted()

		if !s.limiter.Allow() {
			logger.Warn("Rate limit exceeded, dropping connection from %s", conn.RemoteAddr())
			s.metrics.RecordConnectionRejected()
			conn.Close()
			continue
		}

		s.pool.Submit(func() {
			s.handleConnection(handleCtx, conn)
		})
	}
}

// Addr returns the bound listener address, or nil before Serve has
// started listening. Mainly for tests binding port 0.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop drains the worker pool: queued connections are still served, and
// Stop returns once every worker has exited.
func (s *Server) Stop() {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener.Close()
	}
	s.pool.Shutdown()
}
