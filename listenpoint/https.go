package listenpoint

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/onion-http/onion/errs"
	"github.com/onion-http/onion/internal/onlog"
	"github.com/onion-http/onion/request"
)

// HTTPS is a TLS-terminating listen point. The handshake is performed
// eagerly inside Accept so that, by the time a Request exists for a
// connection, request.Conn.IsSecure and reads/writes already operate
// on the decrypted record layer.
type HTTPS struct {
	Hostname  string
	Port      int
	Timeout   time.Duration
	TLSConfig *tls.Config

	mu       sync.Mutex
	listener net.Listener
	log      *logrus.Entry
}

// NewHTTPS builds an HTTPS listen point bound to hostname:port, not
// yet listening.
func NewHTTPS(hostname string, port int, timeout time.Duration, cfg *tls.Config) *HTTPS {
	return &HTTPS{Hostname: hostname, Port: port, Timeout: timeout, TLSConfig: cfg, log: onlog.For("listenpoint.https")}
}

// Listen binds the plain-text socket the TLS handshake rides on.
func (h *HTTPS) Listen() error {
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

// Accept blocks for the next connection, performs the TLS handshake,
// and wraps the result as a Request.
func (h *HTTPS) Accept() (*request.Request, error) {
	h.mu.Lock()
	ln := h.listener
	h.mu.Unlock()
	if ln == nil {
		return nil, errs.New(ErrorNotListening, "HTTPS listen point", nil)
	}
	raw, err := ln.Accept()
	if err != nil {
		return nil, errs.New(ErrorAccept, "accepting connection", err)
	}
	fd := extractFd(raw)

	tlsConn := tls.Server(raw, h.TLSConfig)
	if h.Timeout > 0 {
		_ = tlsConn.SetDeadline(time.Now().Add(h.Timeout))
	}
	if err := tlsConn.HandshakeContext(context.Background()); err != nil {
		_ = raw.Close()
		return nil, errs.New(ErrorHandshake, "TLS handshake", err)
	}

	tc := newTransportConnFd(tlsConn, h.Timeout, true, fd)
	return request.New(tc), nil
}

// Addr returns the bound address, or nil if not yet listening.
func (h *HTTPS) Addr() net.Addr {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listener == nil {
		return nil
	}
	return h.listener.Addr()
}

// Close stops accepting and releases the socket.
func (h *HTTPS) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listener == nil {
		return nil
	}
	err := h.listener.Close()
	h.listener = nil
	return err
}
