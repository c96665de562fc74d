package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

// Server wraps http.Server and drains in-flight requests on SIGINT/SIGTERM.
type Server struct {
	*http.Server

	listener        net.Listener
	shutdownTimeout time.Duration
}

// NewServer creates a Server with timeouts and handler.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: readTimeout,
			WriteTimeout:      writeTimeout,
		},
		shutdownTimeout: DefaultShutdownTimeout,
	}
}

// Listen binds the TCP listener. Addr reports the bound address afterwards.
func (srv *Server) Listen() error {
	addr := srv.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("net.Listen error: %w", err)
	}
	srv.listener = ln
	return nil
}

// ListenAddr returns the bound address, or "" before Listen.
func (srv *Server) ListenAddr() string {
	if srv.listener == nil {
		return ""
	}
	return srv.listener.Addr().String()
}

// Serve runs until ctx is cancelled or the process receives SIGINT/SIGTERM,
// then shuts down within the shutdown timeout.
func (srv *Server) Serve(ctx context.Context) error {
	if srv.listener == nil {
		if err := srv.Listen(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Server.Serve(srv.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		Sugar.Info("shutdown signal received, draining HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), srv.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
		return err
	}
	Sugar.Info("HTTP server shutdown success")
	return nil
}

// GraceServer starts an HTTP server that stops gracefully on signals.
func GraceServer(addr string, handler http.Handler) error {
	return NewServer(addr, handler, DefaultReadTimeout, DefaultWriteTimeout).Serve(context.Background())
}
