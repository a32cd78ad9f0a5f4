// Package server exposes a printer adapter over a raw TCP socket, the
// port-9100 convention: whatever bytes a client sends are forwarded to
// the printer unmodified and in arrival order.
package server

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/tlseries/printer-driver/adapter"
)

// Server relays TCP client data to a printer adapter.
type Server struct {
	adapter  adapter.Adapter
	address  string
	logger   *zap.Logger
	mu       sync.Mutex
	listener net.Listener
	running  bool
	wg       sync.WaitGroup
}

// New creates a server forwarding to device, listening on address.
func New(device adapter.Adapter, address string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		adapter: device,
		address: address,
		logger:  logger,
	}
}

// Start starts the server and blocks until Stop is called.
func (s *Server) Start() error {
	if err := s.listen(); err != nil {
		return err
	}
	s.acceptConnections()
	return nil
}

// StartAsync starts the server in the background.
func (s *Server) StartAsync() error {
	if err := s.listen(); err != nil {
		return err
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptConnections()
	}()
	return nil
}

func (s *Server) listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server: already running")
	}

	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.address, err)
	}

	if !s.adapter.IsOpen() {
		if err := s.adapter.Open(); err != nil {
			listener.Close()
			return fmt.Errorf("server: open adapter: %w", err)
		}
	}

	s.listener = listener
	s.running = true
	s.logger.Info("server listening", zap.String("address", s.address))
	return nil
}

func (s *Server) acceptConnections() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return
			}
			s.logger.Warn("accept failed", zap.Error(err))
			continue
		}

		s.logger.Info("client connected", zap.String("remote", conn.RemoteAddr().String()))
		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// handleConnection copies one client's byte stream into the adapter. A
// single Write per Read keeps relative order; concurrent clients are
// serialized by the adapter's own locking.
func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	buf := make([]byte, 4096)

	for {
		n, err := conn.Read(buf)
		if err != nil {
			if err != io.EOF {
				s.logger.Warn("client read failed", zap.String("remote", remote), zap.Error(err))
			}
			s.logger.Info("client disconnected", zap.String("remote", remote))
			return
		}
		if n == 0 {
			continue
		}

		written, err := s.adapter.Write(buf[:n])
		if err != nil {
			s.logger.Error("adapter write failed", zap.Error(err))
			return
		}
		s.logger.Debug("forwarded job bytes",
			zap.String("remote", remote),
			zap.Int("bytes", written))
	}
}

// Stop stops accepting connections, waits for active clients, and closes
// the adapter. Stopping a stopped server is a no-op.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener.Close()
	}
	s.wg.Wait()

	if s.adapter.IsOpen() {
		if err := s.adapter.Close(); err != nil {
			return fmt.Errorf("server: close adapter: %w", err)
		}
	}
	s.logger.Info("server stopped")
	return nil
}

// IsRunning reports whether the server is accepting connections.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.address
}
