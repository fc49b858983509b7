package listenpoint

import (
	"context"
	"net"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/onion-http/onion/errs"
	"github.com/onion-http/onion/internal/onlog"
	"github.com/onion-http/onion/request"
)

// HTTP is a plain-text listen point over TCP.
type HTTP struct {
	Hostname string
	Port     int
	Timeout  time.Duration

	mu       sync.Mutex
	listener net.Listener
	log      *logrus.Entry
}

// NewHTTP builds an HTTP listen point bound to hostname:port, not yet
// listening.
func NewHTTP(hostname string, port int, timeout time.Duration) *HTTP {
	return &HTTP{Hostname: hostname, Port: port, Timeout: timeout, log: onlog.For("listenpoint.http")}
}

// reuseAddrControl sets SO_REUSEADDR on the listening socket before
// bind, so a restarted server doesn't fail to rebind a port still in
// TIME_WAIT.
func reuseAddrControl(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}

// Listen binds the socket. Safe to call once; a second call returns
// the existing listener's error state unchanged.
func (h *HTTP) Listen() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listener != nil {
		return nil
	}
	lc := net.ListenConfig{Control: reuseAddrControl}
	addr := net.JoinHostPort(h.Hostname, strconv.Itoa(h.Port))
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return errs.New(ErrorListen, "binding "+addr, err)
	}
	h.listener = ln
	h.log.WithField("addr", ln.Addr().String()).Info("listening")
	return nil
}

// Accept blocks for the next connection and wraps it as a Request
// bound to a request.Conn.
func (h *HTTP) Accept() (*request.Request, error) {
	h.mu.Lock()
	ln := h.listener
	h.mu.Unlock()
	if ln == nil {
		return nil, errs.New(ErrorNotListening, "HTTP listen point", nil)
	}
	c, err := ln.Accept()
	if err != nil {
		return nil, errs.New(ErrorAccept, "accepting connection", err)
	}
	tc := newTransportConn(c, h.Timeout, false)
	return request.New(tc), nil
}

// Addr returns the bound address, or nil if not yet listening.
func (h *HTTP) Addr() net.Addr {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listener == nil {
		return nil
	}
	return h.listener.Addr()
}

// Close stops accepting and releases the socket.
func (h *HTTP) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listener == nil {
		return nil
	}
	err := h.listener.Close()
	h.listener = nil
	return err
}
