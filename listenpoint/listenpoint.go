package listenpoint

import (
	"net"

	"github.com/onion-http/onion/request"
)

// ListenPoint is the transport vtable a server façade drives: bind,
// accept connections as Requests, and tear down. HTTP and HTTPS are
// the two implementations.
type ListenPoint interface {
	Listen() error
	Accept() (*request.Request, error)
	Addr() net.Addr
	Close() error
}

var (
	_ ListenPoint = (*HTTP)(nil)
	_ ListenPoint = (*HTTPS)(nil)
)
