package tftp

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	tftp "github.com/pin/tftp/v3"
)

// Server is a read-only TFTP mirror of a root filesystem.
type Server struct {
	srv  *tftp.Server
	conn *net.UDPConn

	mu      sync.Mutex
	serving bool
	stopped bool
}

func cleanName(filename string) string {
	name := strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/")
	return path.Clean("/" + name)
}

func serveFile(root billy.Filesystem, name string, rf io.ReaderFrom) error {
	fi, err := root.Stat(name)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("%s is a directory", name)
	}
	f, err := root.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if ot, ok := rf.(tftp.OutgoingTransfer); ok {
		ot.SetSize(fi.Size())
	}
	_, err = rf.ReadFrom(f)
	return err
}

// Start binds addr and serves read requests for files under root.
// Write requests are refused.
func Start(addr string, root billy.Filesystem, logger *log.Logger) (*Server, error) {
	if addr == "" {
		addr = ":69"
	}
	a, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", a)
	if err != nil {
		return nil, err
	}

	readHandler := func(filename string, rf io.ReaderFrom) error {
		name := cleanName(filename)
		if err := serveFile(root, name, rf); err != nil {
			logger.Printf("read %q: %v", name, err)
			return err
		}
		return nil
	}
	srv := tftp.NewServer(readHandler, nil)
	srv.SetTimeout(5 * time.Second)

	s := &Server{srv: srv, conn: conn}
	go func() {
		if !s.markServing() {
			return
		}
		logger.Printf("TFTP server listening on %s", conn.LocalAddr())
		if err := srv.Serve(conn); err != nil && !errors.Is(err, net.ErrClosed) {
			logger.Printf("TFTP server error: %v", err)
		}
	}()
	return s, nil
}

// markServing reports false when Shutdown already ran.
func (s *Server) markServing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.serving = true
	return true
}

func (s *Server) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// Shutdown stops the server and releases its socket, even when Serve has
// not started yet.
func (s *Server) Shutdown() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	serving := s.serving
	s.mu.Unlock()

	if err := s.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Printf("tftp close: %v", err)
	}
	if serving {
		s.srv.Shutdown()
	}
}
