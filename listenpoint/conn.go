package listenpoint

import (
	"net"
	"syscall"
	"time"
)

// transportConn adapts a net.Conn (plain or TLS) to request.Conn,
// applying a per-read deadline derived from the listen point's
// configured timeout and exposing the raw file descriptor for poller
// registration.
type transportConn struct {
	net.Conn
	timeout time.Duration
	secure  bool
	fd      int
}

func newTransportConn(c net.Conn, timeout time.Duration, secure bool) *transportConn {
	return &transportConn{Conn: c, timeout: timeout, secure: secure, fd: extractFd(c)}
}

// newTransportConnFd is used for wrapper conn types (e.g. *tls.Conn)
// that don't expose their own file descriptor; fd is taken from the
// raw connection underneath instead.
func newTransportConnFd(c net.Conn, timeout time.Duration, secure bool, fd int) *transportConn {
	return &transportConn{Conn: c, timeout: timeout, secure: secure, fd: fd}
}

func (c *transportConn) Read(p []byte) (int, error) {
	if c.timeout > 0 {
		_ = c.Conn.SetReadDeadline(time.Now().Add(c.timeout))
	}
	return c.Conn.Read(p)
}

func (c *transportConn) Write(p []byte) (int, error) {
	if c.timeout > 0 {
		_ = c.Conn.SetWriteDeadline(time.Now().Add(c.timeout))
	}
	return c.Conn.Write(p)
}

func (c *transportConn) Fd() int { return c.fd }

func (c *transportConn) IsSecure() bool { return c.secure }

// extractFd retrieves the raw file descriptor backing c, for
// registration with the poller. It returns -1 for connection types
// that don't expose one (e.g. net.Pipe, used in tests).
func extractFd(c net.Conn) int {
	sc, ok := c.(syscall.Conn)
	if !ok {
		return -1
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return -1
	}
	fd := -1
	_ = raw.Control(func(f uintptr) {
		fd = int(f)
	})
	return fd
}
