package httpx

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
)

// Server owns the listening socket and the http.Server bound to it.
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// Listen binds addr (":8080" listens on every interface) and prepares a
// server for handler. Nothing is served until Serve is called.
func Listen(addr string, handler http.Handler, logger *log.Logger) (*Server, error) {
	if addr == "" {
		addr = ":8080"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewServer(ln, handler, logger), nil
}

func NewServer(ln net.Listener, handler http.Handler, logger *log.Logger) *Server {
	return &Server{
		srv: &http.Server{Handler: handler, ErrorLog: logger},
		ln:  ln,
	}
}

func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve blocks until the server is shut down or the listener fails.
// A clean shutdown returns nil.
func (s *Server) Serve() error {
	if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting, waits for in-flight requests until ctx is done,
// and releases the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	s.ln.Close()
	return err
}

// Close releases the listener without waiting, for startup error paths.
func (s *Server) Close() error {
	err := s.srv.Close()
	if lerr := s.ln.Close(); err == nil && lerr != nil && !errors.Is(lerr, net.ErrClosed) {
		err = lerr
	}
	return err
}
