package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5"

	httpx "cnc-panel-server/http"
	nfsx "cnc-panel-server/nfs"
	"cnc-panel-server/rootfs"
	"cnc-panel-server/tftp"
	"cnc-panel-server/utils"
)

const shutdownTimeout = 5 * time.Second

// server is the single process-wide instance: the HTTP file server plus
// the optional TFTP and NFS mirrors of the same root.
type server struct {
	root    string
	fs      billy.Filesystem
	http    *httpx.Server
	tftp    *tftp.Server
	nfs     net.Listener
	localIP string
}

// newServer opens the root and binds every configured listener. On error
// nothing is left open.
func newServer(cfg Config) (*server, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, err
	}
	fs, err := rootfs.Open(root)
	if err != nil {
		return nil, fmt.Errorf("open served directory: %w", err)
	}

	addr := ":" + strconv.Itoa(cfg.Port)
	loggerHTTP := log.New(os.Stderr, "http ", log.LstdFlags)
	hs, err := httpx.Listen(addr, httpx.NewHandler(fs), loggerHTTP)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	s := &server{root: root, fs: fs, http: hs}

	if cfg.TFTPAddr != "" {
		loggerTFTP := log.New(os.Stderr, "tftp ", log.LstdFlags)
		s.tftp, err = tftp.Start(cfg.TFTPAddr, fs, loggerTFTP)
		if err != nil {
			s.close()
			return nil, fmt.Errorf("start tftp on %s: %w", cfg.TFTPAddr, err)
		}
	}
	if cfg.NFSAddr != "" {
		loggerNFS := log.New(os.Stderr, "nfs ", log.LstdFlags)
		s.nfs, err = nfsx.Start(cfg.NFSAddr, fs, loggerNFS)
		if err != nil {
			s.close()
			return nil, fmt.Errorf("start nfs on %s: %w", cfg.NFSAddr, err)
		}
	}

	s.localIP = utils.LocalIP()
	return s, nil
}

func listenerPort(a net.Addr) int {
	p, err := utils.Port(a.String())
	if err != nil {
		return 0
	}
	return p
}

func (s *server) port() int {
	return listenerPort(s.http.Addr())
}

func (s *server) printBanner(w io.Writer) {
	title := color.New(color.Bold)
	link := color.New(color.FgCyan)
	port := s.port()

	title.Fprintln(w, "CNC Panel Server Starting...")
	fmt.Fprintf(w, "Local access: %s\n", link.Sprintf("http://%s", utils.HostPort("localhost", port)))
	fmt.Fprintf(w, "Network access: %s\n", link.Sprintf("http://%s", utils.HostPort(s.localIP, port)))
	if s.tftp != nil {
		fmt.Fprintf(w, "TFTP access: %s\n", link.Sprintf("tftp://%s", utils.HostPort(s.localIP, listenerPort(s.tftp.Addr()))))
	}
	if s.nfs != nil {
		fmt.Fprintf(w, "NFS access: %s\n", link.Sprintf("nfs://%s/", utils.HostPort(s.localIP, listenerPort(s.nfs.Addr()))))
	}
	fmt.Fprintf(w, "Serving files from: %s\n", s.root)
	fmt.Fprintln(w, "Press Ctrl+C to stop the server")
}

// serve blocks until a signal arrives on stop or the HTTP server fails.
// A signal is a clean stop and returns nil.
func (s *server) serve(stop <-chan os.Signal, w io.Writer) error {
	errc := make(chan error, 1)
	go func() { errc <- s.http.Serve() }()

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
		fmt.Fprintln(w, "\nServer stopped.")
		return nil
	case err := <-errc:
		s.close()
		if err != nil {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	}
}

func (s *server) shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.closeMirrors()
	return err
}

func (s *server) close() {
	s.http.Close()
	s.closeMirrors()
}

func (s *server) closeMirrors() {
	if s.tftp != nil {
		s.tftp.Shutdown()
		s.tftp = nil
	}
	if s.nfs != nil {
		s.nfs.Close()
		s.nfs = nil
	}
}
