package server

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/eternalApril/keyfile/internal/resp"
	"go.uber.org/zap"
)

// Server accepts RESP connections and hands their commands to an Engine
type Server struct {
	engine          *Engine
	logger          *zap.Logger
	shutdownTimeout time.Duration

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

// New creates a Server. shutdownTimeout bounds how long Serve waits for
// in-flight commands once its context is cancelled
func New(engine *Engine, shutdownTimeout time.Duration, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		engine:          engine,
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
		conns:           make(map[net.Conn]struct{}),
	}
}

// Serve accepts connections until ctx is cancelled, then closes the listener
// and waits for the connections to drain
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	stop := context.AfterFunc(ctx, func() {
		listener.Close() //nolint:errcheck
	})
	defer stop()

	s.logger.Info("listening on", zap.String("address", listener.Addr().String()))

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Error("accept error", zap.Error(err))
			continue
		}

		s.track(conn)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.handleConnection(conn)
		}()
	}

	s.drain()
	return nil
}

// handleConnection handles a connection for a single client
func (s *Server) handleConnection(conn net.Conn) {
	peer := NewPeer(conn)

	if s.logger.Core().Enabled(zap.DebugLevel) {
		s.logger.Debug("client connected", zap.String("addr", peer.RemoteAddr()))
	}
	defer func() {
		peer.Close() //nolint:errcheck
		if s.logger.Core().Enabled(zap.DebugLevel) {
			s.logger.Debug("client disconnected", zap.String("addr", peer.RemoteAddr()))
		}
	}()

	for {
		cmdValue, err := peer.ReadCommand()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) && !errors.Is(err, os.ErrDeadlineExceeded) {
				s.logger.Warn("read command failed", zap.Error(err))
			}
			return
		}

		var result resp.Value
		switch {
		case cmdValue.Type != resp.TypeArray:
			result = resp.MakeError("ERR protocol error: expected array")
		case len(cmdValue.Array) == 0:
			continue
		default:
			result = s.engine.Execute(string(cmdValue.Array[0].String), cmdValue.Array[1:])
		}

		if err := peer.Send(result); err != nil {
			s.logger.Error("error writing response", zap.Error(err))
			return
		}

		// pipelined commands are answered in one write
		if peer.InputBuffered() == 0 {
			if err := peer.Flush(); err != nil {
				return
			}
		}
	}
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// drain wakes idle readers, waits for handlers up to the shutdown timeout and
// then force-closes whatever is left
func (s *Server) drain() {
	s.mu.Lock()
	for conn := range s.conns {
		conn.SetReadDeadline(time.Now()) //nolint:errcheck
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("all connections closed gracefully")
	case <-time.After(s.shutdownTimeout):
		s.logger.Warn("shutdown timed out, forcing close", zap.Duration("timeout", s.shutdownTimeout))

		s.mu.Lock()
		for conn := range s.conns {
			conn.Close() //nolint:errcheck
		}
		s.mu.Unlock()
		<-done
	}
}
