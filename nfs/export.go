package nfsx

import (
	"errors"
	"log"
	"net"

	"github.com/go-git/go-billy/v5"
	nfs "github.com/willscott/go-nfs"
	nfshelper "github.com/willscott/go-nfs/helpers"
)

const handleCacheSize = 1024

// Start exports root over NFSv3 on a TCP listener bound to addr.
// Clients mount it without credentials; root should be read-only.
func Start(addr string, root billy.Filesystem, logger *log.Logger) (net.Listener, error) {
	if addr == "" {
		addr = ":2049"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	handler := nfshelper.NewCachingHandler(nfshelper.NewNullAuthHandler(root), handleCacheSize)
	go func() {
		logger.Printf("nfs export listening on %s", ln.Addr())
		if err := nfs.Serve(ln, handler); err != nil && !errors.Is(err, net.ErrClosed) {
			logger.Printf("nfs serve error: %v", err)
		}
	}()
	return ln, nil
}
